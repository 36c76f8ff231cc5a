package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"volunteer-network-backend/internal/errs"

	"github.com/rs/zerolog/log"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is returned by mutations that have nothing else to say
type SuccessResponse struct {
	Success bool `json:"success"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondServiceError maps a service error to its status code.
// Only domain errors expose their message.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, errs.Message(err), errs.HTTPStatus(errs.KindOf(err)))
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseLimit reads limit from the query, falling back to def when absent
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, errs.Invalidf("limit must be between 1 and %d", maxLimit)
	}
	return limit, nil
}

func parseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, errs.Invalidf("offset must be a non-negative integer")
	}
	return offset, nil
}

func parsePage(r *http.Request, defLimit int) (limit, offset int, err error) {
	if limit, err = parseLimit(r, defLimit); err != nil {
		return 0, 0, err
	}
	if offset, err = parseOffset(r); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalidf("invalid request body")
	}
	return nil
}

// checkLength validates a user-supplied text field by rune count
func checkLength(field, value string, min, max int) error {
	n := len([]rune(value))
	if n < min || n > max {
		if min > 0 {
			return errs.Invalidf("%s must be between %d and %d characters", field, min, max)
		}
		return errs.Invalidf("%s must be at most %d characters", field, max)
	}
	return nil
}

func requireParam(name, value string) error {
	if value == "" {
		return errs.Invalidf("%s is required", name)
	}
	return nil
}
