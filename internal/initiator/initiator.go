// Package initiator dials the counterparty of an initiator session and keeps
// the connection up, reconnecting with exponential backoff.
package initiator

import (
	"context"
	"math/rand"
	"net"
	"time"

	"github.com/rs/zerolog"

	"fixengine/internal/connection"
	"fixengine/internal/session"
	"fixengine/pkg/logs"
)

type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type Initiator struct {
	session *session.Session
	addr    string
	backoff BackoffConfig
	dial    DialFunc
	rng     *rand.Rand
	log     zerolog.Logger
}

type Option func(*Initiator)

func WithBackoff(cfg BackoffConfig) Option {
	return func(i *Initiator) { i.backoff = cfg }
}

func WithDialer(dial DialFunc) Option {
	return func(i *Initiator) { i.dial = dial }
}

func New(s *session.Session, addr string, opts ...Option) *Initiator {
	d := &net.Dialer{Timeout: 10 * time.Second}
	i := &Initiator{
		session: s,
		addr:    addr,
		backoff: DefaultBackoff(),
		dial:    d.DialContext,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     logs.Session(s.ID().String()).With().Str("addr", addr).Logger(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run connects and reconnects until ctx is done. Cancelling ctx logs the
// session out and closes the connection.
func (i *Initiator) Run(ctx context.Context) error {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return nil
		}

		conn, err := i.dial(ctx, "tcp", i.addr)
		if err != nil {
			attempt++
			delay := NextBackoffDelay(i.backoff, attempt, i.rng)
			i.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("dial failed")
			if !sleep(ctx, delay) {
				return nil
			}
			continue
		}

		loggedOn := i.serve(ctx, conn)
		if loggedOn {
			attempt = 0
		}
		attempt++
		if !sleep(ctx, NextBackoffDelay(i.backoff, attempt, i.rng)) {
			return nil
		}
	}
}

// serve runs one connection and reports whether the session logged on.
func (i *Initiator) serve(ctx context.Context, conn net.Conn) bool {
	c := connection.New(conn)
	defer c.Wait()

	if err := i.session.Connect(c); err != nil {
		i.log.Warn().Err(err).Msg("connect failed")
		c.Disconnect()
		return false
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if err := i.session.Logout("shutting down"); err != nil {
				c.Disconnect()
			}
		case <-stop:
		}
	}()

	var loggedOn bool
	h := &watcher{session: i.session, loggedOn: &loggedOn}
	if err := c.Run(h); err != nil {
		i.log.Warn().Err(err).Msg("connection closed")
	}
	i.session.Disconnected(c)
	return loggedOn
}

// watcher notes whether the session reached LoggedOn on this connection.
type watcher struct {
	session  *session.Session
	loggedOn *bool
}

func (w *watcher) Receive(raw []byte) {
	w.session.Receive(raw)
	if w.session.State() == session.LoggedOn {
		*w.loggedOn = true
	}
}

func (w *watcher) Garbled(err error) {
	w.session.Garbled(err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
