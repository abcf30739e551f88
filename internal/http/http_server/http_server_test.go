package http_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wichat/internal/rooms"
	"wichat/internal/services/streamtoken"
	"wichat/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPServer(t *testing.T) *httpServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := rooms.NewStore()
	hub := ws.NewHub()
	manager := rooms.NewManager(store, rooms.NewRegistry(), ws.NewPresenceBroadcaster(store, hub))
	t.Cleanup(manager.Close)

	wsSrv := ws.NewWsServer(hub, manager, store, ws.Options{})
	return NewHttpServer(context.Background(), 0, hub, wsSrv, manager, streamtoken.NewIssuer("secret", time.Hour))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newHTTPServer(t).Engine())
	t.Cleanup(ts.Close)
	return ts
}

func TestEngine_CORSAndHealth(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestEngine_WebsocketRoute(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, c.WriteJSON(map[string]any{
		"event": ws.EventJoinRoom,
		"body":  map[string]string{"roomId": "r1", "userId": "u1", "userName": "Alice"},
	}))
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))

	var env ws.Envelope
	require.NoError(t, c.ReadJSON(&env))
	assert.Equal(t, ws.EventExistingParticipants, env.Event)
}

func TestHttpServer_DisposeBeforeStart(t *testing.T) {
	h := newHTTPServer(t)
	require.NoError(t, h.Dispose())

	done := make(chan error, 1)
	go func() { done <- h.Start() }()

	select {
	case err := <-done:
		assert.NoError(t, err, "a disposed server returns without serving")
	case <-time.After(2 * time.Second):
		t.Fatal("Start kept serving after Dispose")
	}
}

func TestHttpServer_DisposeWhileStarting(t *testing.T) {
	h := newHTTPServer(t)

	done := make(chan error, 1)
	go func() { done <- h.Start() }()
	require.NoError(t, h.Dispose())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Dispose")
	}
}
