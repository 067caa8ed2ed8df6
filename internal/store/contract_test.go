package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMessageStore runs the behaviour every MessageStore backend shares.
func testMessageStore(t *testing.T, open func(t *testing.T) MessageStore) {
	tests := []struct {
		name string
		run  func(t *testing.T, s MessageStore)
	}{
		{name: "append and get", run: testStoreAppendGet},
		{name: "append replaces slot", run: testStoreAppendReplacesSlot},
		{name: "sequences", run: testStoreSequences},
		{name: "reset", run: testStoreReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, open(t))
		})
	}
}

func testStoreAppendGet(t *testing.T, s MessageStore) {
	ctx := context.Background()

	for seq := 1; seq <= 12; seq++ {
		require.NoError(t, s.Append(ctx, sessionA, seq, []byte{byte(seq)}))
	}
	require.NoError(t, s.Append(ctx, sessionB, 3, []byte("other")))

	got, err := s.Get(ctx, sessionA, 3, 10)
	require.NoError(t, err)
	require.Len(t, got, 8)
	for i, m := range got {
		assert.Equal(t, i+3, m.SeqNum)
		assert.Equal(t, []byte{byte(i + 3)}, m.Raw)
	}

	got, err = s.Get(ctx, sessionB, 1, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("other"), got[0].Raw)

	got, err = s.Get(ctx, sessionA, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testStoreAppendReplacesSlot(t *testing.T, s MessageStore) {
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sessionA, 4, []byte("first")))
	require.NoError(t, s.Append(ctx, sessionA, 4, []byte("second")))

	got, err := s.Get(ctx, sessionA, 4, 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("second"), got[0].Raw)
}

func testStoreSequences(t *testing.T, s MessageStore) {
	ctx := context.Background()

	seqs, err := s.Sequences(ctx, sessionA)
	require.NoError(t, err)
	assert.Equal(t, 1, seqs.NextSender)
	assert.Equal(t, 1, seqs.NextTarget)

	require.NoError(t, s.SetSequences(ctx, sessionA, Sequences{NextSender: 7, NextTarget: 5}))
	seqs, err = s.Sequences(ctx, sessionA)
	require.NoError(t, err)
	assert.Equal(t, 7, seqs.NextSender)
	assert.Equal(t, 5, seqs.NextTarget)
	assert.False(t, seqs.CreatedAt.IsZero())

	other, err := s.Sequences(ctx, sessionB)
	require.NoError(t, err)
	assert.Equal(t, 1, other.NextSender)
}

func testStoreReset(t *testing.T, s MessageStore) {
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, sessionA, 1, []byte("a")))
	require.NoError(t, s.Append(ctx, sessionB, 1, []byte("b")))
	require.NoError(t, s.SetSequences(ctx, sessionA, Sequences{NextSender: 2, NextTarget: 9}))

	require.NoError(t, s.Reset(ctx, sessionA))

	got, err := s.Get(ctx, sessionA, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	seqs, err := s.Sequences(ctx, sessionA)
	require.NoError(t, err)
	assert.Equal(t, 1, seqs.NextSender)
	assert.Equal(t, 1, seqs.NextTarget)

	got, err = s.Get(ctx, sessionB, 1, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
