package service

import (
	"context"

	"fixengine/internal/admin/model"
	"fixengine/internal/session"
)

//go:generate mockgen -source=interface.go -destination=mock/interface.go

type ISessionService interface {
	List(ctx context.Context) []session.Status
	Get(ctx context.Context, id string) (session.Status, error)
	Logout(ctx context.Context, id string, req model.LogoutRequest) error
	Reset(ctx context.Context, id string) (session.Status, error)
	SetSequences(ctx context.Context, id string, req model.SetSequences) (session.Status, error)
	Messages(ctx context.Context, id string, q model.MessagesQuery) ([]model.StoredMessage, error)
}
