package repository

import (
	"context"
	"math"

	"fixengine/internal/admin/model"
	"fixengine/internal/fix"
	"fixengine/internal/store"
	"fixengine/pkg/utils"
)

type messageRepo struct {
	store store.MessageStore
}

func NewMessageRepo(st store.MessageStore) IMessageRepo {
	return &messageRepo{st}
}

// Find lists stored messages of id with from <= seq <= to. to == 0 means no
// upper bound.
func (repo *messageRepo) Find(ctx context.Context, id fix.SessionID, from, to int) ([]model.StoredMessage, error) {
	if from < 1 {
		from = 1
	}
	if to == 0 {
		to = math.MaxInt32
	}
	stored, err := repo.store.Get(ctx, id, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]model.StoredMessage, 0, len(stored))
	for _, sm := range stored {
		m := model.StoredMessage{
			SeqNum:    sm.SeqNum,
			Raw:       utils.Printable(sm.Raw),
			Timestamp: sm.Timestamp,
		}
		if msg, _, err := fix.Decode(sm.Raw); err == nil {
			m.MsgType = msg.MsgType()
		}
		out = append(out, m)
	}
	return out, nil
}
