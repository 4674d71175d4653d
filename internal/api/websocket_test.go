// internal/api/websocket_test.go
package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestSocket(t *testing.T) (*websocket.Conn, *Handler) {
	t.Helper()

	r, handler := newTestRouter(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/conversation"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, handler
}

func TestConversationSocket(t *testing.T) {
	conn, handler := dialTestSocket(t)

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "open", Language: "Spanish"}))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, 1, handler.Hub().Count())
	assert.Equal(t, "reply", resp.Type)
	assert.Equal(t, "welcome", resp.Source)
	require.NotNil(t, resp.Message)
	assert.NotEmpty(t, resp.Message.ID)
	assert.NotEmpty(t, resp.Message.Text)
	assert.False(t, resp.Message.IsUser)

	// No provider is configured, so turns come from the fallback tables.
	require.NoError(t, conn.WriteJSON(wsRequest{Type: "message", Language: "Spanish", Text: "Hola"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "reply", resp.Type)
	assert.True(t, resp.Degraded)
	assert.Equal(t, "fallback", resp.Source)
	require.NotNil(t, resp.Message)
	assert.NotEmpty(t, resp.Message.Text)

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "clear", Language: "Spanish"}))
	var cleared wsResponse
	require.NoError(t, conn.ReadJSON(&cleared))
	assert.Equal(t, "cleared", cleared.Type)
	assert.Nil(t, cleared.Message)
}

func TestConversationSocketRejectsBadFrames(t *testing.T) {
	conn, _ := dialTestSocket(t)

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "message"}))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "language")

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "message", Language: "Spanish"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "text")

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "bogus", Language: "Spanish"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
}
