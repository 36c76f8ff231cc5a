package handlers

import (
	"net/http"

	"volunteer-network-backend/internal/middleware"
	"volunteer-network-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles requests about the calling user
type UserHandler struct {
	connectionService *services.ConnectionService
}

// NewUserHandler creates a new user handler
func NewUserHandler(connectionService *services.ConnectionService) *UserHandler {
	return &UserHandler{
		connectionService: connectionService,
	}
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	profile, err := h.connectionService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
