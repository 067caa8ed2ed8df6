package store

import (
	"context"
	"encoding/json"
	"time"

	"fixengine/internal/fix"
	"fixengine/pkg/redis"
	"fixengine/schema"
)

// RedisStore keeps messages in a sorted set scored by sequence number and the
// counters in a hash.
type RedisStore struct {
	pool *redis.RedisConnectionPool
	now  func() time.Time
}

func NewRedisStore(uri string) *RedisStore {
	return &RedisStore{pool: redis.NewRedisConnectionPool(uri), now: time.Now}
}

func messagesKey(id fix.SessionID) string {
	return "fix:" + id.String() + ":messages"
}

func sequencesKey(id fix.SessionID) string {
	return "fix:" + id.String() + ":sequences"
}

func (s *RedisStore) Append(_ context.Context, id fix.SessionID, seq int, raw []byte) error {
	member, err := json.Marshal(schema.Message{
		Session:   id.String(),
		SeqNum:    seq,
		Raw:       raw,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.pool.ZReplace(messagesKey(id), seq, member)
}

func (s *RedisStore) Get(_ context.Context, id fix.SessionID, from, to int) ([]StoredMessage, error) {
	if to < from {
		return nil, nil
	}
	members, err := s.pool.ZRangeByScore(messagesKey(id), from, to)
	if err != nil {
		return nil, err
	}
	out := make([]StoredMessage, 0, len(members))
	for _, member := range members {
		var m schema.Message
		if err := json.Unmarshal(member, &m); err != nil {
			return nil, err
		}
		out = append(out, StoredMessage{SeqNum: m.SeqNum, Raw: m.Raw, Timestamp: m.Timestamp})
	}
	return out, nil
}

func (s *RedisStore) Reset(ctx context.Context, id fix.SessionID) error {
	if err := s.pool.Del(messagesKey(id)); err != nil {
		return err
	}
	return s.SetSequences(ctx, id, InitialSequences(s.now().UTC()))
}

func (s *RedisStore) Sequences(_ context.Context, id fix.SessionID) (Sequences, error) {
	values, err := s.pool.HGetInts(sequencesKey(id))
	if err != nil {
		return Sequences{}, err
	}
	if len(values) == 0 {
		return InitialSequences(s.now().UTC()), nil
	}
	return Sequences{
		NextSender: int(values["next_sender"]),
		NextTarget: int(values["next_target"]),
		CreatedAt:  time.Unix(0, values["created_at"]).UTC(),
	}, nil
}

func (s *RedisStore) SetSequences(_ context.Context, id fix.SessionID, seqs Sequences) error {
	if seqs.CreatedAt.IsZero() {
		seqs.CreatedAt = s.now().UTC()
	}
	return s.pool.HSetInts(sequencesKey(id), map[string]int64{
		"next_sender": int64(seqs.NextSender),
		"next_target": int64(seqs.NextTarget),
		"created_at":  seqs.CreatedAt.UnixNano(),
	})
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}
