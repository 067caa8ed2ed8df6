package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"fixengine/internal/fix"
	"fixengine/internal/session"
	mock_session "fixengine/internal/session/mock"
	"fixengine/internal/store"
)

var (
	engineID = fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "ENGINE", TargetCompID: "CLIENT"}
	t0       = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type responder struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (r *responder) Send(raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]byte(nil), raw...))
	return nil
}

func (r *responder) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *responder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *responder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}

func (r *responder) messages(t *testing.T) []*fix.Message {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*fix.Message, 0, len(r.frames))
	for _, raw := range r.frames {
		msg, _, err := fix.Decode(raw)
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

func (r *responder) ofType(t *testing.T, msgType string) []*fix.Message {
	t.Helper()
	var out []*fix.Message
	for _, msg := range r.messages(t) {
		if msg.IsMsgTypeOf(msgType) {
			out = append(out, msg)
		}
	}
	return out
}

type harness struct {
	t         *testing.T
	app       *mock_session.MockApplication
	clock     *clock
	resp      *responder
	store     *store.MemoryStore
	session   *session.Session
	delivered []int
}

// newHarness builds an acceptor session. expect registers expectations that
// take precedence over the permissive defaults.
func newHarness(t *testing.T, settings session.Settings, expect func(app *mock_session.MockApplication), opts ...session.Option) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	app := mock_session.NewMockApplication(ctrl)
	return newHarnessWithApp(t, settings, app, app, expect, opts...)
}

func newHarnessWithApp(t *testing.T, settings session.Settings, app session.Application, mock *mock_session.MockApplication,
	expect func(app *mock_session.MockApplication), opts ...session.Option) *harness {
	t.Helper()

	h := &harness{t: t, app: mock, clock: &clock{now: t0}, resp: &responder{}}
	if expect != nil {
		expect(mock)
	}
	mock.EXPECT().OnLogon(gomock.Any()).AnyTimes()
	mock.EXPECT().OnLogout(gomock.Any()).AnyTimes()
	mock.EXPECT().ToAdmin(gomock.Any(), gomock.Any()).AnyTimes()
	mock.EXPECT().ToApp(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mock.EXPECT().FromAdmin(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mock.EXPECT().FromApp(gomock.Any(), gomock.Any()).DoAndReturn(
		func(msg *fix.Message, id fix.SessionID) session.MessageRejectError {
			h.delivered = append(h.delivered, msg.SeqNum())
			return nil
		}).AnyTimes()

	st, err := store.NewMemoryStore()
	require.NoError(t, err)
	h.store = st

	if settings.SessionID.IsZero() {
		settings.SessionID = engineID
	}
	opts = append([]session.Option{session.WithClock(h.clock.Now)}, opts...)
	s, err := session.New(context.Background(), settings, st, app, opts...)
	require.NoError(t, err)
	h.session = s
	return h
}

// at moves the clock to t0+d.
func (h *harness) at(d time.Duration) time.Time {
	now := t0.Add(d)
	h.clock.Set(now)
	return now
}

func (h *harness) tick(d time.Duration) {
	h.session.Tick(h.at(d))
}

// logon connects and completes an acceptor logon with the peer's seq 1.
func (h *harness) logon() {
	h.t.Helper()
	require.NoError(h.t, h.session.Connect(h.resp))
	h.session.Receive(peer(h.t, fix.MsgTypeLogon, 1, logonBody()...))
	require.Equal(h.t, session.LoggedOn, h.session.State())
	h.resp.clear()
}

func (h *harness) receive(msgType string, seq int, body ...fix.Field) {
	h.t.Helper()
	h.session.Receive(peer(h.t, msgType, seq, body...))
}

func logonBody() []fix.Field {
	return []fix.Field{
		{Tag: fix.TagEncryptMethod, Value: "0"},
		{Tag: fix.TagHeartBtInt, Value: "30"},
	}
}

func orderBody(id string) []fix.Field {
	return []fix.Field{{Tag: 11, Value: id}}
}

// peer encodes a message as sent by the counterparty.
func peer(t *testing.T, msgType string, seq int, body ...fix.Field) []byte {
	t.Helper()
	return peerWith(t, engineID.BeginString, msgType, seq, nil, body...)
}

func peerWith(t *testing.T, begin, msgType string, seq int, header []fix.Field, body ...fix.Field) []byte {
	t.Helper()
	m := fix.NewMessage(msgType)
	m.Header.Set(fix.TagBeginString, begin)
	m.Header.Set(fix.TagSenderCompID, engineID.TargetCompID)
	m.Header.Set(fix.TagTargetCompID, engineID.SenderCompID)
	m.Header.SetInt(fix.TagMsgSeqNum, seq)
	m.Header.SetTime(fix.TagSendingTime, t0)
	for _, f := range header {
		m.Header.Set(f.Tag, f.Value)
	}
	for _, f := range body {
		m.Body.Add(f.Tag, f.Value)
	}
	raw, err := fix.Encode(m)
	require.NoError(t, err)
	return raw
}

func field(t *testing.T, fm *fix.FieldMap, tag fix.Tag) string {
	t.Helper()
	v, ok := fm.Get(tag)
	require.True(t, ok, "tag %d missing", tag)
	return v
}
