package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 30 * 24 * time.Hour

// IdentityService issues and validates bearer tokens carrying a user id
type IdentityService struct {
	jwtSecret string
}

// NewIdentityService creates a new identity service
func NewIdentityService(jwtSecret string) *IdentityService {
	return &IdentityService{jwtSecret: jwtSecret}
}

// Enabled reports whether a signing secret is configured
func (s *IdentityService) Enabled() bool {
	return s.jwtSecret != ""
}

// GenerateJWT generates a JWT token for a user
func (s *IdentityService) GenerateJWT(userID string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(tokenTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *IdentityService) ValidateJWT(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("jwt secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
