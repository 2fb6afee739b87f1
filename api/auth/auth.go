// Package auth authenticates issuers with HS256 JWT bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blockward/blockward-backend/api"
)

// ErrNoSecret is returned when tokens are requested without a signing secret.
var ErrNoSecret = errors.New("JWT secret is not configured")

// Claims identify the issuer. Subject is the issuer profile id.
type Claims struct {
	Name   string `json:"name,omitempty"`
	School string `json:"school,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims set by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// NewToken signs a token for issuerID valid for ttl.
func NewToken(secret []byte, issuerID, name, school, role string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		Name:   name,
		School: school,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   issuerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret []byte, token string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token.
func Middleware(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				log.Error("Rejecting authenticated route, JWT_SECRET is not set")
				api.WriteError(w, api.ConfigurationError("Authentication is not configured"))
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				api.WriteError(w, api.AuthError("Missing bearer token"))
				return
			}

			claims, err := ParseToken(secret, strings.TrimSpace(token))
			if err != nil {
				log.Debug("Invalid bearer token", "err", err)
				api.WriteError(w, api.AuthError("Invalid bearer token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
