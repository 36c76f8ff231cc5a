package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub               *services.WSHub
	identityService   *services.IdentityService
	connectionService *services.ConnectionService
	allowHeader       bool
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	identityService *services.IdentityService,
	connectionService *services.ConnectionService,
	allowHeader bool,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		identityService:   identityService,
		connectionService: connectionService,
		allowHeader:       allowHeader,
	}
}

// HandleWebSocket handles GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.WebSocketUser(r, h.identityService, h.allowHeader)
	if err != nil {
		respondError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	ctx := r.Context()
	h.sendStatus(ctx, userID)

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg services.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to parse WebSocket message")
			h.sendError(userID, "Invalid message format")
			continue
		}

		if err := h.handleMessage(ctx, userID, msg); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("type", msg.Type).Msg("Failed to handle message")
		}
	}
}

// handleMessage processes incoming WebSocket messages
func (h *WebSocketHandler) handleMessage(ctx context.Context, userID string, msg services.WSMessage) error {
	switch msg.Type {
	case "ping":
		return h.hub.SendToUser(userID, services.WSMessage{Type: "pong"})
	case "status":
		h.sendStatus(ctx, userID)
		return nil
	default:
		return h.sendError(userID, "Unknown message type")
	}
}

// sendStatus sends the connection_status snapshot
func (h *WebSocketHandler) sendStatus(ctx context.Context, userID string) {
	pending, err := h.connectionService.PendingRequestCount(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to count pending requests")
		return
	}

	msg := services.WSMessage{
		Type: "connection_status",
		Data: map[string]interface{}{
			"pending_requests": pending,
		},
	}
	if err := h.hub.SendToUser(userID, msg); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send connection_status message")
	}
}

func (h *WebSocketHandler) sendError(userID, message string) error {
	return h.hub.SendToUser(userID, services.WSMessage{
		Type:    "error",
		Message: message,
	})
}
