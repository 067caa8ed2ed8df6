// Package acceptor listens for counterparty connections and binds each one to
// a registered session by the CompIDs of its Logon.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"fixengine/internal/connection"
	"fixengine/internal/fix"
	"fixengine/internal/session"
	"fixengine/pkg/logs"
)

const defaultLogonTimeout = 10 * time.Second

type Acceptor struct {
	registry     *session.Registry
	logonTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	conns    map[*connection.Conn]struct{}
	wg       sync.WaitGroup
}

// New creates an acceptor for the sessions of reg. Connections that do not
// send a Logon within logonTimeout are dropped.
func New(reg *session.Registry, logonTimeout time.Duration) *Acceptor {
	if logonTimeout <= 0 {
		logonTimeout = defaultLogonTimeout
	}
	return &Acceptor{
		registry:     reg,
		logonTimeout: logonTimeout,
		conns:        make(map[*connection.Conn]struct{}),
	}
}

func (a *Acceptor) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("acceptor: listen %s: %w", addr, err)
	}
	return a.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done, then closes every open
// connection and waits for their handlers.
func (a *Acceptor) Serve(ctx context.Context, l net.Listener) error {
	a.mu.Lock()
	a.listener = l
	a.mu.Unlock()
	logs.Log.Info().Str("addr", l.Addr().String()).Msg("FIX acceptor listening")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			a.closeAll()
			a.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("acceptor: accept: %w", err)
		}
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.Handle(conn)
		}()
	}
}

// Handle runs one connection to completion.
func (a *Acceptor) Handle(conn net.Conn) {
	c := connection.New(conn)
	a.track(c, true)
	defer func() {
		a.track(c, false)
		c.Disconnect()
		c.Wait()
	}()
	log := logs.Log.With().Str("remote", c.RemoteAddr().String()).Logger()

	raw, err := c.Next(time.Now().Add(a.logonTimeout))
	if err != nil {
		log.Warn().Err(err).Msg("no logon received")
		return
	}
	msg, _, err := fix.Decode(raw)
	if err != nil {
		log.Warn().Err(err).Msg("undecodable first message")
		return
	}
	if !msg.IsMsgTypeOf(fix.MsgTypeLogon) {
		log.Warn().Str("msg_type", msg.MsgType()).Msg("first message is not a Logon")
		return
	}

	s, ok := a.lookup(msg)
	if !ok {
		log.Warn().Str("msg", msg.String()).Msg("unknown session")
		return
	}
	if err := s.Connect(c); err != nil {
		log.Warn().Err(err).Msg("session already connected")
		return
	}

	s.Receive(raw)
	if err := c.Run(s); err != nil {
		log.Warn().Err(err).Str("session", s.ID().String()).Msg("connection closed")
	}
	s.Disconnected(c)
}

// lookup finds the session a Logon addresses. Sessions match on reversed
// CompIDs; an exact BeginString match wins, otherwise the session sees the
// mismatch itself and refuses the Logon.
func (a *Acceptor) lookup(msg *fix.Message) (*session.Session, bool) {
	begin, _ := msg.Header.Get(fix.TagBeginString)
	sender, _ := msg.Header.Get(fix.TagSenderCompID)
	target, _ := msg.Header.Get(fix.TagTargetCompID)

	id := fix.SessionID{BeginString: begin, SenderCompID: target, TargetCompID: sender}
	if s, ok := a.registry.Lookup(id); ok {
		return s, true
	}
	for _, s := range a.registry.List() {
		sid := s.ID()
		if sid.SenderCompID == target && sid.TargetCompID == sender && !s.Settings().Initiator {
			return s, true
		}
	}
	return nil, false
}

func (a *Acceptor) track(c *connection.Conn, open bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if open {
		a.conns[c] = struct{}{}
		return
	}
	delete(a.conns, c)
}

func (a *Acceptor) closeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for c := range a.conns {
		c.Disconnect()
	}
}

// Addr is the listening address once Serve has started.
func (a *Acceptor) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}
