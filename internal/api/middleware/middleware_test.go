package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/bunny/internal/api/shared"
	"github.com/phrazzld/bunny/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-at-least-32-bytes"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	m, err := NewAuthMiddleware(testSecret)
	require.NoError(t, err)

	var gotSubject string
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = shared.GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	valid := jwt.RegisteredClaims{
		Subject:   "desktop-client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := jwt.RegisteredClaims{
		Subject:   "desktop-client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	noExpiry := jwt.RegisteredClaims{Subject: "desktop-client"}
	noSubject := jwt.RegisteredClaims{ExpiresAt: valid.ExpiresAt}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid), http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid authorization format"},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), http.StatusUnauthorized, "Token expired"},
		{"no expiry", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry), http.StatusUnauthorized, "Invalid token"},
		{"no subject", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject), http.StatusUnauthorized, "Invalid token"},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), valid), http.StatusUnauthorized, "Invalid token"},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), valid), http.StatusUnauthorized, "Invalid token"},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized, "Invalid token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotSubject = ""
			req := httptest.NewRequest(http.MethodGet, "/api/bunny/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "desktop-client", gotSubject)
			} else {
				assert.Contains(t, w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestNewAuthMiddlewareRequiresSecret(t *testing.T) {
	_, err := NewAuthMiddleware("")
	assert.Error(t, err)
}

func TestTraceMiddleware(t *testing.T) {
	log, _ := logger.GetTestLogger(t)

	var ctxTrace string
	var hasLogger bool
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTrace = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContextOrDefault(r.Context(), nil) != nil
	}))

	t.Run("generates trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Len(t, ctxTrace, shared.TraceIDLength)
		assert.Equal(t, ctxTrace, w.Header().Get(shared.TraceIDHeader))
		assert.True(t, hasLogger)
	})

	t.Run("keeps incoming trace id", func(t *testing.T) {
		incoming := "0123456789abcdef0123456789abcdef"
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(shared.TraceIDHeader, incoming)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, incoming, ctxTrace)
		assert.Equal(t, incoming, w.Header().Get(shared.TraceIDHeader))
	})
}
