package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixengine/internal/config"
	"fixengine/internal/fix"
	"fixengine/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("FIX_SESSIONS", "FIX.4.4:ENGINE->CLIENT,FIX.4.2:ENGINE->BROKER")
	t.Setenv("RATE_LIMITER_MAX_REQUESTS", "100")
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

func TestNew_Acceptor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := New(ctx, testConfig(t), ModeAcceptor)
	require.NoError(t, err)
	defer srv.Close()

	require.Len(t, srv.Registry().List(), 2)
	s44, ok := srv.Registry().Lookup(fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "ENGINE", TargetCompID: "CLIENT"})
	require.True(t, ok)
	assert.False(t, s44.Settings().Initiator)

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "FIX.4.2:ENGINE->BROKER", resp.Data[0].ID)
	assert.Equal(t, "disconnected", resp.Data[0].State)
}

func TestNew_InitiatorNeedsAddress(t *testing.T) {
	_, err := New(context.Background(), testConfig(t), ModeInitiator)
	assert.Error(t, err)
}

func TestNew_BadDictionary(t *testing.T) {
	cfg := testConfig(t)
	cfg.DictionaryPath = "does-not-exist.xml"
	_, err := New(context.Background(), cfg, ModeAcceptor)
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	ctx := context.Background()
	id := fix.SessionID{BeginString: "FIX.4.4", SenderCompID: "ENGINE", TargetCompID: "CLIENT"}
	st, err := store.NewMemoryStore()
	require.NoError(t, err)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, st.SetSequences(ctx, id, store.Sequences{NextSender: 3, NextTarget: 5, CreatedAt: created}))
	require.NoError(t, st.Append(ctx, id, 1, []byte("8=FIX.4.4\x019=5\x0135=0\x0110=000\x01")))
	require.NoError(t, st.Append(ctx, id, 2, []byte("8=FIX.4.4\x019=5\x0135=1\x0110=000\x01")))

	var out bytes.Buffer
	require.NoError(t, Dump(ctx, &out, st, id, 2, 0))

	assert.Equal(t, "session FIX.4.4:ENGINE->CLIENT\n"+
		"next sender 3, next target 5, created 2024-01-02T03:04:05Z\n"+
		"2\t8=FIX.4.4|9=5|35=1|10=000|\n", out.String())
}
