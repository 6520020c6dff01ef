package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/types"
)

// SessionClaims are the JWT claims carried by the session cookie.
type SessionClaims struct {
	UserID string         `json:"uid"`
	Email  string         `json:"email"`
	Role   types.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 session tokens.
type TokenManager struct {
	config *config.JWTConfig
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{config: cfg}
}

// Generate issues a signed session token for the user.
func (tm *TokenManager) Generate(user *types.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(tm.config.TokenTTL) * time.Second)

	claims := &SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.config.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a session token string.
func (tm *TokenManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.config.SecretKey), nil
	})
	if err != nil {
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Invalid session token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, types.NewAuthenticationError(types.ErrCodeInvalidToken, "Invalid session token")
	}
	return claims, nil
}

// CookieTTL returns the session lifetime in seconds, for the cookie Max-Age.
func (tm *TokenManager) CookieTTL() int {
	return tm.config.TokenTTL
}
