// Package connection moves raw FIX frames between a net.Conn and a session.
package connection

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fixengine/internal/fix"
	"fixengine/pkg/logs"
)

const (
	writeWait   = 10 * time.Second
	sendBacklog = 256
)

var ErrClosed = errors.New("connection: closed")

// Handler consumes the frames read from a connection.
type Handler interface {
	Receive(raw []byte)
	Garbled(err error)
}

// Conn owns one socket. Reads happen on the caller of Next or Run; writes are
// queued and flushed by a dedicated goroutine so Send never waits on the
// network.
type Conn struct {
	conn    net.Conn
	scanner *fix.Scanner
	log     zerolog.Logger

	send chan []byte
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func New(conn net.Conn) *Conn {
	c := &Conn{
		conn:    conn,
		scanner: fix.NewScanner(conn),
		log:     logs.Log.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		send:    make(chan []byte, sendBacklog),
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.writeHandler()
	return c
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send queues raw for writing.
func (c *Conn) Send(raw []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- raw:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Disconnect flushes what is queued and closes the socket. It returns
// without waiting for the flush and is safe to call more than once.
func (c *Conn) Disconnect() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Wait blocks until the writer has closed the socket.
func (c *Conn) Wait() {
	c.wg.Wait()
}

// Next reads one frame. A zero deadline blocks until a frame arrives.
func (c *Conn) Next(deadline time.Time) ([]byte, error) {
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	return c.scanner.Next()
}

// Run hands every frame to h until the connection fails or is closed. Garbled
// input is reported to h and reading continues.
func (c *Conn) Run(h Handler) error {
	defer c.Disconnect()

	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return err
	}
	for {
		raw, err := c.scanner.Next()
		if err != nil {
			if errors.Is(err, fix.ErrGarbled) {
				h.Garbled(err)
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || c.closed() {
				return nil
			}
			c.log.Warn().Err(err).Msg("read failed")
			return err
		}
		h.Receive(raw)
	}
}

func (c *Conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Conn) writeHandler() {
	defer func() {
		c.conn.Close()
		c.wg.Done()
	}()

	for {
		select {
		case raw := <-c.send:
			if err := c.write(raw); err != nil {
				c.log.Warn().Err(err).Msg("write failed")
				c.Disconnect()
				return
			}
		case <-c.done:
			c.flush()
			return
		}
	}
}

// flush writes frames queued before Disconnect, typically a final Logout.
func (c *Conn) flush() {
	for {
		select {
		case raw := <-c.send:
			if err := c.write(raw); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Conn) write(raw []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := c.conn.Write(raw)
	return err
}
