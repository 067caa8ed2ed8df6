// Package store persists outbound FIX messages and session sequence numbers.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixengine/internal/fix"
)

const (
	TypeMemory = "memory"
	TypeMongo  = "mongo"
	TypeRedis  = "redis"
)

var ErrClosed = errors.New("store: closed")

// StoredMessage is the unit kept for resend.
type StoredMessage struct {
	SeqNum    int
	Raw       []byte
	Timestamp time.Time
}

// Sequences are the next numbers to send and to expect.
type Sequences struct {
	NextSender int
	NextTarget int
	CreatedAt  time.Time
}

// InitialSequences is what a session without persisted state starts from.
func InitialSequences(now time.Time) Sequences {
	return Sequences{NextSender: 1, NextTarget: 1, CreatedAt: now}
}

//go:generate mockgen -source=store.go -destination=mock/store.go

// MessageStore is append-only per session. Append must be durable before it
// returns; Get may run concurrently with an Append on the same session.
type MessageStore interface {
	Append(ctx context.Context, id fix.SessionID, seq int, raw []byte) error
	// Get returns stored messages with from <= seq <= to in ascending order.
	Get(ctx context.Context, id fix.SessionID, from, to int) ([]StoredMessage, error)
	// Reset drops all messages and sets both sequences back to 1.
	Reset(ctx context.Context, id fix.SessionID) error
	Sequences(ctx context.Context, id fix.SessionID) (Sequences, error)
	SetSequences(ctx context.Context, id fix.SessionID, seqs Sequences) error
	Close() error
}

type Config struct {
	Type     string `validate:"required,oneof=memory mongo redis"`
	MongoURL string `validate:"required_if=Type mongo"`
	MongoDB  string `validate:"required_if=Type mongo"`
	RedisURL string `validate:"required_if=Type redis"`
}

// New opens the backend selected by cfg.Type.
func New(ctx context.Context, cfg Config) (MessageStore, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryStore()
	case TypeMongo:
		return DialMongo(ctx, cfg.MongoURL, cfg.MongoDB)
	case TypeRedis:
		return NewRedisStore(cfg.RedisURL), nil
	}
	return nil, fmt.Errorf("store: unknown type %q", cfg.Type)
}
