package repository

import (
	"context"

	"fixengine/internal/admin/model"
	"fixengine/internal/fix"
)

type IMessageRepo interface {
	Find(ctx context.Context, id fix.SessionID, from, to int) ([]model.StoredMessage, error)
}
