package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"volunteer-network-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readWS(t *testing.T, conn *websocket.Conn) services.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg services.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_StatusAndPing(t *testing.T) {
	s := newTestServer(t, false, "a", "b")
	rec := s.do(t, http.MethodPost, "/api/v1/connections/requests", "b", SendRequestBody{ToUserID: "a"})
	require.Equal(t, http.StatusCreated, rec.Code)

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user_id=a"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	status := readWS(t, conn)
	assert.Equal(t, "connection_status", status.Type)
	data, ok := status.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["pending_requests"])

	require.NoError(t, conn.WriteJSON(services.WSMessage{Type: "ping"}))
	assert.Equal(t, "pong", readWS(t, conn).Type)

	require.NoError(t, conn.WriteJSON(services.WSMessage{Type: "dance"}))
	unknown := readWS(t, conn)
	assert.Equal(t, "error", unknown.Type)
	assert.Equal(t, "Unknown message type", unknown.Message)
}

func TestWebSocket_NotifiesOnRequest(t *testing.T) {
	s := newTestServer(t, false, "a", "b")

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user_id=a"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "connection_status", readWS(t, conn).Type)

	rec := s.do(t, http.MethodPost, "/api/v1/connections/requests", "b", SendRequestBody{ToUserID: "a"})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "connection_request", readWS(t, conn).Type)
}

func TestWebSocket_RequiresIdentity(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
