package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/phrazzld/bunny/internal/redact"
)

// AuthMiddleware checks HS256 bearer tokens signed with a shared secret.
type AuthMiddleware struct {
	secret []byte
	parser *jwt.Parser
}

// NewAuthMiddleware creates an AuthMiddleware for the given secret.
func NewAuthMiddleware(secret string) (*AuthMiddleware, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &AuthMiddleware{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// token's subject in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		subject, err := m.validate(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			default:
				logger.FromContext(r.Context()).Debug("rejected bearer token",
					"error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.SubjectContextKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := m.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", jwt.ErrTokenInvalidClaims)
	}
	return claims.Subject, nil
}
