package store

import (
	"context"
	"sync/atomic"
	"time"

	"fixengine/internal/fix"
	"fixengine/pkg/memdb"
	"fixengine/schema"
)

// MemoryStore keeps everything in go-memdb tables. Contents do not survive a restart.
type MemoryStore struct {
	messages *memdb.MemDB
	sessions *memdb.MemDB
	closed   atomic.Bool
	now      func() time.Time
}

func NewMemoryStore() (*MemoryStore, error) {
	messages, err := memdb.InitSchema("messages", schema.MessageSchema)
	if err != nil {
		return nil, err
	}
	sessions, err := memdb.InitSchema("sessions", schema.SessionSchema)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{messages: messages, sessions: sessions, now: time.Now}, nil
}

func (s *MemoryStore) Append(_ context.Context, id fix.SessionID, seq int, raw []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	key := id.String()
	return s.messages.Create(schema.Message{
		ID:        schema.MessageKey(key, seq),
		Session:   key,
		SeqNum:    seq,
		Raw:       append([]byte(nil), raw...),
		Timestamp: s.now().UTC(),
	})
}

func (s *MemoryStore) Get(_ context.Context, id fix.SessionID, from, to int) ([]StoredMessage, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if to < from {
		return nil, nil
	}
	key := id.String()
	rows, err := s.messages.Range("id", schema.MessageKey(key, from), schema.MessageKey(key, to), func(obj interface{}) string {
		return obj.(schema.Message).ID
	})
	if err != nil {
		return nil, err
	}

	out := make([]StoredMessage, 0, len(rows))
	for _, row := range rows {
		m := row.(schema.Message)
		out = append(out, StoredMessage{SeqNum: m.SeqNum, Raw: m.Raw, Timestamp: m.Timestamp})
	}
	return out, nil
}

func (s *MemoryStore) Reset(ctx context.Context, id fix.SessionID) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err := s.messages.Clear("session", id.String()); err != nil {
		return err
	}
	return s.SetSequences(ctx, id, InitialSequences(s.now().UTC()))
}

func (s *MemoryStore) Sequences(_ context.Context, id fix.SessionID) (Sequences, error) {
	if s.closed.Load() {
		return Sequences{}, ErrClosed
	}
	row, err := s.sessions.FindOne("id", id.String())
	if err != nil {
		return Sequences{}, err
	}
	if row == nil {
		return InitialSequences(s.now().UTC()), nil
	}
	rec := row.(schema.Session)
	return Sequences{NextSender: rec.NextSender, NextTarget: rec.NextTarget, CreatedAt: rec.CreatedAt}, nil
}

func (s *MemoryStore) SetSequences(_ context.Context, id fix.SessionID, seqs Sequences) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if seqs.CreatedAt.IsZero() {
		seqs.CreatedAt = s.now().UTC()
	}
	return s.sessions.Create(schema.Session{
		ID:         id.String(),
		NextSender: seqs.NextSender,
		NextTarget: seqs.NextTarget,
		CreatedAt:  seqs.CreatedAt,
	})
}

func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}
