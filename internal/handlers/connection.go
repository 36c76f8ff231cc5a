package handlers

import (
	"net/http"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultSuggestionLimit = 10
	maxMessageLength       = 500
)

// ConnectionHandler handles connection-related HTTP requests
type ConnectionHandler struct {
	connectionService *services.ConnectionService
	notifier          *services.Notifier
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService *services.ConnectionService, notifier *services.Notifier) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		notifier:          notifier,
	}
}

// SendRequestBody represents the request body for sending a connection request
type SendRequestBody struct {
	ToUserID string  `json:"to_user_id"`
	Message  *string `json:"message,omitempty"`
}

// GetConnections handles GET /api/v1/connections
func (h *ConnectionHandler) GetConnections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	limit, offset, err := parsePage(r, defaultLimit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	page, err := h.connectionService.GetConnections(ctx, userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get connections")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// GetRequests handles GET /api/v1/connections/requests
func (h *ConnectionHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.connectionService.GetConnectionRequests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get connection requests")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// SendRequest handles POST /api/v1/connections/requests
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendRequestBody
	if err := decodeBody(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}
	if err := requireParam("to_user_id", req.ToUserID); err != nil {
		respondServiceError(w, err)
		return
	}
	if req.Message != nil {
		if err := checkLength("message", *req.Message, 0, maxMessageLength); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	result, err := h.connectionService.SendConnectionRequest(ctx, userID, req.ToUserID, req.Message)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("to_user_id", req.ToUserID).
			Msg("Failed to send connection request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("to_user_id", req.ToUserID).
		Str("connection_id", result.ConnectionID).
		Msg("Connection request sent")

	h.notifier.ConnectionRequested(ctx, userID, req.ToUserID, result.ConnectionID)

	respondJSON(w, http.StatusCreated, result)
}

// AcceptRequest handles POST /api/v1/connections/requests/{requester_id}/accept
func (h *ConnectionHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requesterID := chi.URLParam(r, "requester_id")

	if err := h.connectionService.AcceptConnectionRequest(ctx, userID, requesterID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("requester_id", requesterID).
			Msg("Failed to accept connection request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("requester_id", requesterID).
		Msg("Connection request accepted")

	h.notifier.ConnectionAccepted(ctx, userID, requesterID)

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// RejectRequest handles POST /api/v1/connections/requests/{requester_id}/reject
func (h *ConnectionHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requesterID := chi.URLParam(r, "requester_id")

	if err := h.connectionService.RejectConnectionRequest(ctx, userID, requesterID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("requester_id", requesterID).
			Msg("Failed to reject connection request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("requester_id", requesterID).
		Msg("Connection request rejected")

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// RemoveConnection handles DELETE /api/v1/connections/{user_id}
func (h *ConnectionHandler) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	otherUserID := chi.URLParam(r, "user_id")

	if err := h.connectionService.RemoveConnection(ctx, userID, otherUserID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("other_user_id", otherUserID).
			Msg("Failed to remove connection")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("other_user_id", otherUserID).
		Msg("Connection removed")

	h.notifier.ConnectionRemoved(ctx, userID, otherUserID)

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// GetSuggestions handles GET /api/v1/connections/suggestions
func (h *ConnectionHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	limit, err := parseLimit(r, defaultSuggestionLimit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	suggestions, err := h.connectionService.GetSuggestions(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get suggestions")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
