package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/admin/model"
	"fixengine/internal/admin/repository"
	"fixengine/internal/fix"
	"fixengine/internal/session"
	"fixengine/internal/store"
)

var engineID = fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "ENGINE", TargetCompID: "CLIENT"}

type app struct{}

func (app) OnCreate(fix.SessionID)                                          {}
func (app) OnLogon(fix.SessionID)                                           {}
func (app) OnLogout(fix.SessionID)                                          {}
func (app) ToAdmin(*fix.Message, fix.SessionID)                             {}
func (app) ToApp(*fix.Message, fix.SessionID) error                         { return nil }
func (app) FromAdmin(*fix.Message, fix.SessionID) session.MessageRejectError { return nil }
func (app) FromApp(*fix.Message, fix.SessionID) session.MessageRejectError   { return nil }

func newService(t *testing.T) (ISessionService, *session.Session) {
	t.Helper()
	st, err := store.NewMemoryStore()
	require.NoError(t, err)
	s, err := session.New(context.Background(), session.Settings{SessionID: engineID}, st, app{})
	require.NoError(t, err)

	reg := session.NewRegistry(context.Background())
	t.Cleanup(reg.Close)
	require.NoError(t, reg.Register(s))
	return NewSessionService(reg, repository.NewMessageRepo(st)), s
}

func Test_sessionService_Get(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	status, err := svc.Get(ctx, engineID.String())
	require.NoError(t, err)
	assert.Equal(t, engineID.String(), status.ID)
	assert.Equal(t, "disconnected", status.State)

	_, err = svc.Get(ctx, "FIX.4.4:ENGINE->OTHER")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = svc.Get(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.Len(t, svc.List(ctx), 1)
}

func Test_sessionService_Sequences(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	status, err := svc.SetSequences(ctx, engineID.String(), model.SetSequences{NextSender: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, status.NextSender)
	assert.Equal(t, 1, status.NextTarget)

	status, err = svc.Reset(ctx, engineID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, status.NextSender)
	assert.Equal(t, 1, status.NextTarget)
}

func Test_sessionService_Logout(t *testing.T) {
	svc, _ := newService(t)
	err := svc.Logout(context.Background(), engineID.String(), model.LogoutRequest{})
	assert.ErrorIs(t, err, session.ErrNotConnected)
}

func Test_sessionService_Messages(t *testing.T) {
	svc, s := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		msg := fix.NewMessage("8")
		msg.Body.Set(fix.Tag(17), "EXEC")
		require.NoError(t, s.Send(msg))
	}

	got, err := svc.Messages(ctx, engineID.String(), model.MessagesQuery{From: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].SeqNum)
	assert.Equal(t, "8", got[0].MsgType)
	assert.Contains(t, got[0].Raw, "|35=8|")
	assert.NotContains(t, got[0].Raw, "\x01")
}
