package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Scheduler: config.SchedulerConfig{
			HostProfile:  "native",
			TickInterval: 10 * time.Millisecond,
		},
		Subjects: config.SubjectsConfig{Driver: driverMemory},
		Events:   config.EventsConfig{RedisChannel: "bunny:events"},
		LLM:      config.LLMConfig{ModelName: "gemini-2.0-flash"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *application {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func TestRunnerConfig(t *testing.T) {
	t.Run("profile defaults", func(t *testing.T) {
		cfg := runnerConfig(config.SchedulerConfig{HostProfile: "constrained"})
		assert.Equal(t, task.PoolStrategyShared, cfg.PoolStrategy)
		assert.Equal(t, 2, cfg.MaxConcurrent[task.CategoryOCR])
		assert.Equal(t, 4, cfg.SharedWorkers)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := runnerConfig(config.SchedulerConfig{
			HostProfile:              "native",
			PoolStrategy:             "shared",
			MaxConcurrentOCR:         3,
			MaxConcurrentTranslation: 7,
			SharedWorkers:            4,
			TickInterval:             time.Second,
			RetentionTTL:             time.Hour,
			MaxRecords:               500,
			EventBuffer:              64,
		})
		assert.Equal(t, task.PoolStrategyShared, cfg.PoolStrategy)
		assert.Equal(t, 3, cfg.MaxConcurrent[task.CategoryOCR])
		assert.Equal(t, 7, cfg.MaxConcurrent[task.CategoryTranslation])
		assert.Equal(t, 4, cfg.SharedWorkers)
		assert.Equal(t, time.Second, cfg.TickInterval)
		assert.Equal(t, time.Hour, cfg.RetentionTTL)
		assert.Equal(t, 500, cfg.MaxRecords)
		assert.Equal(t, 64, cfg.EventBuffer)
	})
}

func TestRouter(t *testing.T) {
	app := newTestApp(t, testConfig())
	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
	})

	t.Run("swagger document", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/api/bunny/tasks")
	})

	t.Run("services list includes builtins", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bunny/services", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"default"`)
	})

	t.Run("ocr request on registered marker", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/bunny/markers/7",
			strings.NewReader(`{"image_id":3}`)))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bunny/ocr",
			strings.NewReader(`{"marker_id":7}`)))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Contains(t, rec.Body.String(), "bunny_task_")
	})
}

func TestRouterAuthentication(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = testSecret
	router := newTestApp(t, cfg).setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bunny/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "desktop-client",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bunny/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")
}

func TestNewApplicationSQLite(t *testing.T) {
	cfg := testConfig()
	cfg.Subjects = config.SubjectsConfig{
		Driver: driverSQLite,
		DSN:    filepath.Join(t.TempDir(), "bunny.db"),
	}
	app := newTestApp(t, cfg)
	require.NotNil(t, app.db)

	require.NoError(t, app.service.RegisterMarker(context.Background(), 1, 1))
}

func TestNewApplicationBadCatalogFile(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := newApplication(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "failed to load service catalog")
}

func TestRunMigrationsMemoryDriver(t *testing.T) {
	err := runMigrations(context.Background(), testConfig(), "up", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "nothing to migrate")
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Port = 0
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
