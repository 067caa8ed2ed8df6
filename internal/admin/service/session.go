package service

import (
	"context"
	"errors"
	"fmt"

	"fixengine/internal/admin/model"
	"fixengine/internal/admin/repository"
	"fixengine/internal/fix"
	"fixengine/internal/session"
	"fixengine/pkg/logs"
)

var ErrInvalidID = errors.New("invalid session id")

type sessionService struct {
	registry *session.Registry
	repo     repository.IMessageRepo
}

func NewSessionService(reg *session.Registry, repo repository.IMessageRepo) ISessionService {
	return &sessionService{registry: reg, repo: repo}
}

func (svc *sessionService) List(ctx context.Context) []session.Status {
	sessions := svc.registry.List()
	out := make([]session.Status, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Status())
	}
	return out
}

func (svc *sessionService) Get(ctx context.Context, id string) (session.Status, error) {
	s, err := svc.lookup(id)
	if err != nil {
		return session.Status{}, err
	}
	return s.Status(), nil
}

func (svc *sessionService) Logout(ctx context.Context, id string, req model.LogoutRequest) error {
	s, err := svc.lookup(id)
	if err != nil {
		return err
	}
	reason := req.Reason
	if reason == "" {
		reason = "operator logout"
	}
	logs.Log.Info().Str("session", id).Str("reason", reason).Msg("admin logout")
	return s.Logout(reason)
}

func (svc *sessionService) Reset(ctx context.Context, id string) (session.Status, error) {
	s, err := svc.lookup(id)
	if err != nil {
		return session.Status{}, err
	}
	logs.Log.Info().Str("session", id).Msg("admin sequence reset")
	if err := s.Reset(); err != nil {
		return session.Status{}, err
	}
	return s.Status(), nil
}

func (svc *sessionService) SetSequences(ctx context.Context, id string, req model.SetSequences) (session.Status, error) {
	s, err := svc.lookup(id)
	if err != nil {
		return session.Status{}, err
	}
	if err := s.SetSequences(req.NextSender, req.NextTarget); err != nil {
		return session.Status{}, err
	}
	return s.Status(), nil
}

func (svc *sessionService) Messages(ctx context.Context, id string, q model.MessagesQuery) ([]model.StoredMessage, error) {
	s, err := svc.lookup(id)
	if err != nil {
		return nil, err
	}
	return svc.repo.Find(ctx, s.ID(), q.From, q.To)
}

func (svc *sessionService) lookup(id string) (*session.Session, error) {
	sid, err := fix.ParseSessionID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	s, ok := svc.registry.Lookup(sid)
	if !ok {
		return nil, session.ErrNotFound
	}
	return s, nil
}
