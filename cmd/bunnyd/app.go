package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bunny/internal/api/middleware"
	"github.com/phrazzld/bunny/internal/catalog"
	"github.com/phrazzld/bunny/internal/config"
	"github.com/phrazzld/bunny/internal/events"
	"github.com/phrazzld/bunny/internal/platform/gemini"
	"github.com/phrazzld/bunny/internal/platform/redis"
	"github.com/phrazzld/bunny/internal/service"
	"github.com/phrazzld/bunny/internal/store"
	"github.com/phrazzld/bunny/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

// application holds the shared dependencies of the daemon so they can be
// wired once and closed in order on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db          *sql.DB
	redisClient *goredis.Client

	emitter *events.InMemoryEventEmitter
	markers store.MarkerStore
	catalog *catalog.Catalog
	runner  *task.TaskRunner
	service service.BunnyService
	authMW  *middleware.AuthMiddleware
}

// newApplication wires every component from cfg and starts the task runner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		emitter: events.NewInMemoryEventEmitter(logger),
	}

	if err := app.setupEventSinks(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	var err error
	app.markers, app.db, err = openMarkerStore(ctx, cfg.Subjects, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to open marker store: %w", err)
	}
	logger.Info("marker store ready", "driver", cfg.Subjects.Driver)

	app.emitter.RegisterHandler(service.NewResultCache(app.markers, app.emitter, logger))

	app.catalog = catalog.New(app.emitter, logger).WithBuiltins()
	if cfg.Catalog.File != "" {
		if err := app.catalog.LoadFile(ctx, cfg.Catalog.File); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to load service catalog: %w", err)
		}
	}

	bodies, err := app.setupBodies(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.runner, err = task.NewTaskRunner(runnerConfig(cfg.Scheduler), bodies, app.emitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task runner: %w", err)
	}
	if err := app.runner.Start(); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.service, err = service.NewBunnyService(app.runner, app.markers, app.catalog, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create bunny service: %w", err)
	}

	if cfg.Auth.JWTSecret != "" {
		app.authMW, err = middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create auth middleware: %w", err)
		}
		logger.Info("bearer authentication enabled")
	}

	logger.Info("application initialized",
		"host_profile", cfg.Scheduler.HostProfile,
		"redis_events", app.redisClient != nil,
		"gemini", cfg.LLM.GeminiAPIKey != "")
	return app, nil
}

func (app *application) setupEventSinks(ctx context.Context) error {
	cfg := app.config.Events
	if cfg.RedisAddr == "" {
		return nil
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	app.redisClient = client

	publisher, err := redis.NewPublisher(client, cfg.RedisChannel, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create redis publisher: %w", err)
	}
	app.emitter.RegisterHandler(publisher)
	app.logger.Info("publishing events to redis", "channel", cfg.RedisChannel)
	return nil
}

// setupBodies registers the simulated bodies and, when an API key is
// configured, the Gemini translation body under the "gemini" service id.
func (app *application) setupBodies(ctx context.Context) (*task.BodyRegistry, error) {
	bodies := task.NewBodyRegistry(task.SimulatedBody{
		Steps:     5,
		StepDelay: app.config.Scheduler.StepDelay,
	})

	llm := app.config.LLM
	if llm.GeminiAPIKey == "" {
		return bodies, nil
	}

	gen, err := gemini.NewContentGenerator(ctx, llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	translator, err := gemini.NewTranslator(gen, app.markers, llm, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini translator: %w", err)
	}
	bodies.Register(task.CategoryTranslation, gemini.ServiceID, translator)

	err = app.catalog.RegisterTranslation(ctx, gemini.ServiceID, catalog.TranslationService{
		ID:                 gemini.ServiceID,
		Name:               "Google Gemini (" + llm.ModelName + ")",
		SupportsAutoDetect: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register gemini service: %w", err)
	}
	app.logger.Info("gemini translation enabled", "model", llm.ModelName)
	return bodies, nil
}

// runnerConfig starts from the host profile defaults and applies the
// non-zero overrides.
func runnerConfig(sc config.SchedulerConfig) task.TaskRunnerConfig {
	cfg := task.DefaultTaskRunnerConfig(task.HostProfile(sc.HostProfile))

	if sc.MaxConcurrentOCR > 0 {
		cfg.MaxConcurrent[task.CategoryOCR] = sc.MaxConcurrentOCR
	}
	if sc.MaxConcurrentTranslation > 0 {
		cfg.MaxConcurrent[task.CategoryTranslation] = sc.MaxConcurrentTranslation
	}
	if sc.PoolStrategy != "" {
		cfg.PoolStrategy = task.PoolStrategy(sc.PoolStrategy)
	}
	if sc.SharedWorkers > 0 {
		cfg.SharedWorkers = sc.SharedWorkers
	}
	if sc.TickInterval > 0 {
		cfg.TickInterval = sc.TickInterval
	}
	cfg.RetentionTTL = sc.RetentionTTL
	cfg.MaxRecords = sc.MaxRecords
	if sc.EventBuffer > 0 {
		cfg.EventBuffer = sc.EventBuffer
	}
	return cfg
}

// Run serves HTTP until ctx is cancelled, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops the runner and closes connections. It is safe to call on a
// partially initialized application.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
		app.runner = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.db = nil
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
		app.redisClient = nil
	}
	app.logger.Info("application shutdown completed")
}
