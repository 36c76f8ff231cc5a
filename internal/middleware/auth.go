package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"volunteer-network-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDHeader carries the caller's id when header identity is allowed
const UserIDHeader = "X-User-ID"

// Identity resolves the calling user from a bearer token or,
// when allowHeader is set, from the X-User-ID header
func Identity(identity *services.IdentityService, allowHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolveUser(r, identity, allowHeader)
			if err != nil {
				respondError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func resolveUser(r *http.Request, identity *services.IdentityService, allowHeader bool) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", fmt.Errorf("invalid authorization header format")
		}
		if !identity.Enabled() {
			return "", fmt.Errorf("token authentication is not configured")
		}
		userID, err := identity.ValidateJWT(parts[1])
		if err != nil {
			return "", fmt.Errorf("invalid token")
		}
		return userID, nil
	}

	if allowHeader {
		if userID := strings.TrimSpace(r.Header.Get(UserIDHeader)); userID != "" {
			return userID, nil
		}
	}

	return "", fmt.Errorf("authentication required")
}

// WithUserID stores the caller's id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// WebSocketUser resolves the user for a realtime connection from the
// token query parameter, or user_id when header identity is allowed
func WebSocketUser(r *http.Request, identity *services.IdentityService, allowHeader bool) (string, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		return identity.ValidateJWT(token)
	}
	if allowHeader {
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			return userID, nil
		}
	}
	return "", fmt.Errorf("token required")
}

// CORS handles CORS
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+UserIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
