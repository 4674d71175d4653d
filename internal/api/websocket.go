// internal/api/websocket.go
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lingualife/lingualife/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
)

// WebSocketHub tracks the open conversation sockets so they can be
// closed on shutdown.
type WebSocketHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (h *WebSocketHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Count reports the number of open sockets.
func (h *WebSocketHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll closes every open socket. Used on server shutdown.
func (h *WebSocketHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(wsWriteWait))
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}

// wsRequest is a client frame on the conversation socket. It mirrors the
// REST conversation endpoints: one frame per operation.
type wsRequest struct {
	Type     string `json:"type"` // "open", "message" or "clear"
	Language string `json:"language"`
	Scenario string `json:"scenario"`
	Text     string `json:"text"`
}

// wsResponse is a server frame on the conversation socket. Reply frames
// carry the rendered assistant message plus its degradation tags.
type wsResponse struct {
	Type     string          `json:"type"` // "reply", "cleared" or "error"
	Message  *models.Message `json:"message,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
	Source   string          `json:"source,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func renderReply(reply models.Reply) wsResponse {
	return wsResponse{
		Type: "reply",
		Message: &models.Message{
			ID:          uuid.NewString(),
			Text:        reply.Message,
			IsUser:      false,
			Timestamp:   time.Now(),
			Translation: reply.TranslationHint,
		},
		Degraded: reply.Degraded,
		Source:   reply.Source,
	}
}

// ConversationSocket upgrades the connection and serves conversation
// turns over it. Frames on one socket are handled in order.
func (h *Handler) ConversationSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.wsHub.add(conn)
	defer func() {
		h.wsHub.remove(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		resp := h.handleSocketRequest(c, req)

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn("WebSocket write failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
	}
}

func (h *Handler) handleSocketRequest(c *gin.Context, req wsRequest) wsResponse {
	if req.Language == "" {
		return wsResponse{Type: "error", Error: "language is required"}
	}

	switch req.Type {
	case "open":
		return renderReply(h.conversations.OpenConversation(req.Language, req.Scenario))
	case "message":
		if req.Text == "" {
			return wsResponse{Type: "error", Error: "text is required"}
		}
		return renderReply(h.conversations.GenerateResponse(c.Request.Context(), req.Text, req.Language, req.Scenario))
	case "clear":
		h.conversations.ClearConversation(req.Language, req.Scenario)
		return wsResponse{Type: "cleared"}
	default:
		return wsResponse{Type: "error", Error: "unknown frame type"}
	}
}

// Hub exposes the socket hub for shutdown coordination.
func (h *Handler) Hub() *WebSocketHub {
	return h.wsHub
}
