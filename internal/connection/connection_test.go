package connection

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/fix"
)

type recorder struct {
	mu      sync.Mutex
	frames  []string
	garbled []error
}

func (r *recorder) Receive(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, string(raw))
}

func (r *recorder) Garbled(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.garbled = append(r.garbled, err)
}

func (r *recorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...), append([]error(nil), r.garbled...)
}

func heartbeat(t *testing.T, seq int) []byte {
	t.Helper()
	m := fix.NewMessage(fix.MsgTypeHeartbeat)
	m.Header.Set(fix.TagBeginString, "FIX.4.4")
	m.Header.Set(fix.TagSenderCompID, "CLIENT")
	m.Header.Set(fix.TagTargetCompID, "ENGINE")
	m.Header.SetInt(fix.TagMsgSeqNum, seq)
	m.Header.SetTime(fix.TagSendingTime, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))
	raw, err := fix.Encode(m)
	require.NoError(t, err)
	return raw
}

func TestConn_Run(t *testing.T) {
	local, remote := net.Pipe()
	c := New(local)
	rec := &recorder{}

	errc := make(chan error, 1)
	go func() { errc <- c.Run(rec) }()

	first, second := heartbeat(t, 1), heartbeat(t, 2)
	stream := append([]byte("garbage"), first...)
	stream = append(stream, second...)
	_, err := remote.Write(stream)
	require.NoError(t, err)
	require.NoError(t, remote.Close())

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the peer closed")
	}

	frames, garbled := rec.snapshot()
	assert.Equal(t, []string{string(first), string(second)}, frames)
	require.Len(t, garbled, 1)
	assert.ErrorIs(t, garbled[0], fix.ErrGarbled)
	c.Wait()
}

func TestConn_SendAndDisconnect(t *testing.T) {
	local, remote := net.Pipe()
	c := New(local)

	first, logout := heartbeat(t, 1), heartbeat(t, 2)
	require.NoError(t, c.Send(first))
	require.NoError(t, c.Send(logout))
	c.Disconnect()
	c.Disconnect()

	scanner := fix.NewScanner(remote)
	got, err := scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, first, got)
	got, err = scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, logout, got)

	c.Wait()
	assert.ErrorIs(t, c.Send(first), ErrClosed)
	_, err = scanner.Next()
	assert.Error(t, err)
}

func TestConn_Next(t *testing.T) {
	local, remote := net.Pipe()
	c := New(local)
	defer c.Disconnect()

	_, err := c.Next(time.Now().Add(20 * time.Millisecond))
	require.Error(t, err)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())

	raw := heartbeat(t, 1)
	go remote.Write(raw)
	got, err := c.Next(time.Now().Add(2 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
