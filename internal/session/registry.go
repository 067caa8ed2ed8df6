package session

import (
	"context"
	"sort"
	"sync"

	"fixengine/internal/fix"
	"fixengine/pkg/logs"
)

type entry struct {
	session *Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// Registry owns the sessions of a process and their tick loops.
type Registry struct {
	mu       sync.RWMutex
	ctx      context.Context
	sessions map[fix.SessionID]*entry
}

// NewRegistry ties the lifetime of every registered session loop to ctx.
func NewRegistry(ctx context.Context) *Registry {
	return &Registry{ctx: ctx, sessions: make(map[fix.SessionID]*entry)}
}

// Register starts the tick loop of s and calls OnCreate.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; ok {
		return ErrExists
	}
	ctx, cancel := context.WithCancel(r.ctx)
	e := &entry{session: s, cancel: cancel, done: make(chan struct{})}
	r.sessions[s.id] = e

	s.app.OnCreate(s.id)
	go func() {
		defer close(e.done)
		s.Run(ctx)
	}()
	logs.Log.Info().Str("session", s.id.String()).Msg("session registered")
	return nil
}

func (r *Registry) Lookup(id fix.SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Remove stops the tick loop of id and closes its connection.
func (r *Registry) Remove(id fix.SessionID) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.cancel()
	<-e.done
	e.session.Close()
	logs.Log.Info().Str("session", id.String()).Msg("session removed")
	return nil
}

// List returns the registered sessions ordered by id.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.session)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].id.String() < out[j].id.String()
	})
	return out
}

// SendToTarget sends msg on the session id.
func (r *Registry) SendToTarget(msg *fix.Message, id fix.SessionID) error {
	s, ok := r.Lookup(id)
	if !ok {
		return ErrNotFound
	}
	return s.Send(msg)
}

// Close removes every session.
func (r *Registry) Close() {
	for _, s := range r.List() {
		r.Remove(s.id)
	}
}
