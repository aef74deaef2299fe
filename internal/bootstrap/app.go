package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/generator"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/wizards"
	"resume-builder/resume/generation"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Metrics *metrics.Metrics

	GeneratedResumesRepo    generatedresumes.Repo
	GeneratedResumesService *generatedresumes.Service
	Generator               generation.Generator
	Sessions                *wizards.Store
	WizardService           *wizards.Service

	WizardHandler    *wizards.Handler
	ArchiveHandler   *generatedresumes.Handler
	GeneratorHandler *generator.Handler
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Metrics: metrics.New(),
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Service:     app.GeneratorHandler,
		Handlers:    []server.RouteRegistrar{app.WizardHandler, app.ArchiveHandler},
		Metrics:     app.Metrics.Handler(),
		RateLimiter: middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.database", map[string]any{"detail": "DATABASE_URL empty; using in-memory archive"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.database", map[string]any{"detail": "connect failed; using in-memory archive", "err": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildGenerator picks the in-process renderer or the remote service client.
func buildGenerator(cfg config.Config) (generation.Generator, error) {
	if cfg.GeneratorMode == config.GeneratorRemote {
		return generator.NewRemote(cfg.GeneratorURL, cfg.GeneratorTimeout)
	}
	return generator.NewLocal(), nil
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.GeneratedResumesRepo = &generatedresumes.PGRepo{DB: app.DB}
	} else {
		app.GeneratedResumesRepo = generatedresumes.NewMemoryRepo()
	}
	app.GeneratedResumesService = &generatedresumes.Service{
		Repo:    app.GeneratedResumesRepo,
		Store:   app.Store,
		Metrics: app.Metrics,
	}

	base, err := buildGenerator(app.Config)
	if err != nil {
		return err
	}
	app.Generator = generatedresumes.Recording(base, app.GeneratedResumesService)

	app.Sessions = wizards.NewStore(app.Config.SessionTTL, app.Metrics)
	app.WizardService = &wizards.Service{
		Store:     app.Sessions,
		Generator: app.Generator,
		JobOptions: generation.Options{
			TickInterval: app.Config.ProgressTick,
			SettleDelay:  app.Config.SettleDelay,
		},
		Metrics: app.Metrics,
	}

	app.WizardHandler = wizards.NewHandler(app.WizardService, validator.New())
	app.ArchiveHandler = generatedresumes.NewHandler(app.GeneratedResumesService)
	// The service surface always renders in-process; remote mode points at another
	// instance of this same endpoint.
	app.GeneratorHandler = generator.NewHandler(generator.NewLocal())
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
