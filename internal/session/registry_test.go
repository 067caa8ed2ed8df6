package session_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/fix"
	"fixengine/internal/session"
	mock_session "fixengine/internal/session/mock"
	"fixengine/internal/store"
)

func newRegistered(t *testing.T, app session.Application, id fix.SessionID) *session.Session {
	t.Helper()
	st, err := store.NewMemoryStore()
	require.NoError(t, err)
	s, err := session.New(context.Background(), session.Settings{SessionID: id}, st, app)
	require.NoError(t, err)
	return s
}

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	app := mock_session.NewMockApplication(ctrl)
	other := fix.SessionID{BeginString: "FIX.4.2", SenderCompID: "ENGINE", TargetCompID: "BROKER"}
	app.EXPECT().OnCreate(engineID).Times(1)
	app.EXPECT().OnCreate(other).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg := session.NewRegistry(ctx)
	defer reg.Close()

	s1 := newRegistered(t, app, engineID)
	s2 := newRegistered(t, app, other)
	require.NoError(t, reg.Register(s1))
	require.NoError(t, reg.Register(s2))
	assert.ErrorIs(t, reg.Register(s1), session.ErrExists)

	got, ok := reg.Lookup(engineID)
	require.True(t, ok)
	assert.Same(t, s1, got)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, other, list[0].ID())
	assert.Equal(t, engineID, list[1].ID())

	require.NoError(t, reg.Remove(other))
	assert.ErrorIs(t, reg.Remove(other), session.ErrNotFound)
	_, ok = reg.Lookup(other)
	assert.False(t, ok)
}

func TestRegistry_SendToTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	app := mock_session.NewMockApplication(ctrl)
	app.EXPECT().OnCreate(gomock.Any()).AnyTimes()
	app.EXPECT().ToApp(gomock.Any(), engineID).Return(nil).Times(1)

	reg := session.NewRegistry(context.Background())
	defer reg.Close()
	s := newRegistered(t, app, engineID)
	require.NoError(t, reg.Register(s))

	unknown := fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "A", TargetCompID: "B"}
	assert.ErrorIs(t, reg.SendToTarget(fix.NewMessage("8"), unknown), session.ErrNotFound)

	require.NoError(t, reg.SendToTarget(fix.NewMessage("8"), engineID))
	assert.Equal(t, 2, s.Status().NextSender)
}

func TestMessageRouter(t *testing.T) {
	router := session.NewMessageRouter()
	var routed []string
	router.AddRoute("FIX.4.4", "D", func(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
		routed = append(routed, msg.MsgType())
		return nil
	})
	router.AddRoute("FIX.4.4", "F", func(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
		return session.ValueIsIncorrect(41)
	})

	newMsg := func(begin, msgType string) *fix.Message {
		m := fix.NewMessage(msgType)
		m.Header.Set(fix.TagBeginString, begin)
		return m
	}

	assert.Nil(t, router.Route(newMsg("FIX.4.4", "D"), engineID))
	assert.Equal(t, []string{"D"}, routed)

	rej := router.Route(newMsg("FIX.4.4", "F"), engineID)
	require.NotNil(t, rej)
	assert.Equal(t, fix.RejectValueIncorrect, rej.RejectReason())
	assert.Equal(t, fix.Tag(41), rej.RefTagID())

	rej = router.Route(newMsg("FIX.4.2", "D"), engineID)
	require.NotNil(t, rej)
	assert.True(t, rej.IsBusinessReject())
	assert.Equal(t, fix.BusinessRejectUnsupportedMessageType, rej.RejectReason())

	assert.Nil(t, router.Route(newMsg("FIX.4.4", fix.MsgTypeHeartbeat), engineID))
}
