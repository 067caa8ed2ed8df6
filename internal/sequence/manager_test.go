package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/fix"
	"fixengine/internal/store"
	mock_store "fixengine/internal/store/mock"
)

var session = fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "SERVER", TargetCompID: "CLIENT"}

func newManager(t *testing.T) (*Manager, *store.MemoryStore) {
	t.Helper()
	st, err := store.NewMemoryStore()
	require.NoError(t, err)
	m, err := NewManager(context.Background(), session, st)
	require.NoError(t, err)
	return m, st
}

func inbound(seq int) *fix.Message {
	m := fix.NewMessage("D")
	m.Header.SetInt(fix.TagMsgSeqNum, seq)
	return m
}

func TestManager_OnInbound(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	require.NoError(t, m.SetNextTarget(ctx, 5))

	tests := []struct {
		name string
		seq  int
		want Result
	}{
		{name: "expected", seq: 5, want: Result{Verdict: Accept, Expected: 5, Received: 5}},
		{name: "too low", seq: 3, want: Result{Verdict: Duplicate, Expected: 5, Received: 3}},
		{name: "gap", seq: 7, want: Result{Verdict: Gap, Expected: 5, Received: 7, From: 5, To: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.OnInbound(tt.seq))
			assert.Equal(t, 5, m.NextTarget())
		})
	}
}

func TestManager_AdvancePersists(t *testing.T) {
	ctx := context.Background()
	m, st := newManager(t)

	require.NoError(t, m.Advance(ctx))
	require.NoError(t, m.Advance(ctx))
	assert.Equal(t, 3, m.NextTarget())

	seqs, err := st.Sequences(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 3, seqs.NextTarget)

	reloaded, err := NewManager(ctx, session, st)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.NextTarget())
	assert.Equal(t, 1, reloaded.NextSender())
}

func TestManager_OnOutbound(t *testing.T) {
	ctx := context.Background()
	m, st := newManager(t)

	seq, raw, err := m.OnOutbound(ctx, func(seq int) ([]byte, error) {
		return []byte{byte(seq)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
	assert.Equal(t, []byte{1}, raw)
	assert.Equal(t, 2, m.NextSender())

	_, _, err = m.OnOutbound(ctx, func(seq int) ([]byte, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 2, m.NextSender())

	stored, err := st.Get(ctx, session, 1, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].SeqNum)
}

func TestManager_OnOutboundStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	st := mock_store.NewMockMessageStore(ctrl)
	gomock.InOrder(
		st.EXPECT().Sequences(ctx, session).Return(store.Sequences{NextSender: 4, NextTarget: 2}, nil),
		st.EXPECT().Append(ctx, session, 4, gomock.Any()).Return(errors.New("disk full")),
		st.EXPECT().Append(ctx, session, 4, gomock.Any()).Return(nil),
		st.EXPECT().SetSequences(ctx, session, store.Sequences{NextSender: 5, NextTarget: 2}).Return(nil),
	)

	m, err := NewManager(ctx, session, st)
	require.NoError(t, err)

	encode := func(seq int) ([]byte, error) { return []byte("x"), nil }
	_, _, err = m.OnOutbound(ctx, encode)
	require.Error(t, err)
	assert.Equal(t, 4, m.NextSender())

	seq, _, err := m.OnOutbound(ctx, encode)
	require.NoError(t, err)
	assert.Equal(t, 4, seq)
	assert.Equal(t, 5, m.NextSender())
}

func TestManager_OnOutboundConcurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				seq, _, err := m.OnOutbound(ctx, func(seq int) ([]byte, error) { return []byte("m"), nil })
				assert.NoError(t, err)
				mu.Lock()
				assert.False(t, seen[seq], "seq %d allocated twice", seq)
				seen[seq] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 200)
	assert.Equal(t, 201, m.NextSender())
}

func TestManager_BufferAndNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	require.NoError(t, m.SetNextTarget(ctx, 5))

	m.Buffer(inbound(7))
	m.Buffer(inbound(3))
	assert.Equal(t, []int{7}, m.Buffered())

	_, ok := m.Next()
	assert.False(t, ok)

	require.NoError(t, m.Advance(ctx))
	require.NoError(t, m.Advance(ctx))
	msg, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, 7, msg.SeqNum())
	assert.Empty(t, m.Buffered())
}

func TestManager_OpenResend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	m, _ := newManager(t)
	require.NoError(t, m.SetNextTarget(ctx, 5))

	r, ok := m.OpenResend(5, 6, now)
	require.True(t, ok)
	assert.Equal(t, Range{From: 5, To: 6}, r)

	_, ok = m.OpenResend(5, 6, now)
	assert.False(t, ok, "a second message beyond the same gap must not request again")

	r, ok = m.OpenResend(5, 8, now)
	require.True(t, ok)
	assert.Equal(t, Range{From: 7, To: 8}, r)

	m.Buffer(inbound(9))
	m.Buffer(inbound(10))
	_, ok = m.OpenResend(5, 10, now)
	assert.False(t, ok, "buffered numbers are not requested")
	rng, _ := m.ResendRange()
	assert.Equal(t, Range{From: 5, To: 10}, rng)

	for i := 0; i < 6; i++ {
		require.NoError(t, m.Advance(ctx))
	}
	assert.False(t, m.ResendInProgress())
}

func TestManager_ExpireResend(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	m, _ := newManager(t)
	require.NoError(t, m.SetNextTarget(ctx, 5))

	m.OpenResend(5, 6, now)
	m.Buffer(inbound(7))

	assert.False(t, m.ExpireResend(now.Add(5*time.Second), 10*time.Second))
	assert.True(t, m.ResendInProgress())

	assert.True(t, m.ExpireResend(now.Add(10*time.Second), 10*time.Second))
	assert.False(t, m.ResendInProgress())
	assert.Empty(t, m.Buffered())

	_, ok := m.OpenResend(5, 7, now)
	assert.True(t, ok)
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	m, st := newManager(t)

	_, _, err := m.OnOutbound(ctx, func(seq int) ([]byte, error) { return []byte("m"), nil })
	require.NoError(t, err)
	require.NoError(t, m.SetNextTarget(ctx, 9))
	m.Buffer(inbound(11))

	require.NoError(t, m.Reset(ctx))
	assert.Equal(t, 1, m.NextSender())
	assert.Equal(t, 1, m.NextTarget())
	assert.Empty(t, m.Buffered())

	stored, err := st.Get(ctx, session, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestManager_Retrieve(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	for i := 0; i < 5; i++ {
		_, _, err := m.OnOutbound(ctx, func(seq int) ([]byte, error) { return []byte{byte(seq)}, nil })
		require.NoError(t, err)
	}

	got, err := m.Retrieve(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 5, got[3].SeqNum)

	got, err = m.Retrieve(ctx, 4, 99)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
