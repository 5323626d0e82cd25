package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	googleauth "agri-backend/internal/auth"
	"agri-backend/internal/services/health"
	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/server"
	"agri-backend/internal/shared/storage/db"
	"agri-backend/internal/shared/storage/mongodb"
	"agri-backend/internal/shared/storage/object"
	gcsstore "agri-backend/internal/shared/storage/object/gcs"
	localstore "agri-backend/internal/shared/storage/object/local"
	s3store "agri-backend/internal/shared/storage/object/s3"
	"agri-backend/internal/shared/telemetry"
	"agri-backend/internal/soilanalyses"
	"agri-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Mongo        *mongo.Database
	Store        object.ObjectStore
	SoilRepo     soilanalyses.Repo
	UsersRepo    users.Repo
	SoilService  *soilanalyses.Service
	UsersService *users.Service
	SoilHandler  *soilanalyses.Handler
	UsersHandler *users.Handler
	GoogleAuth   *googleauth.GoogleService
	Health       *health.Service
}

// Build prepares dependencies and wires routes. A Mongo URI takes precedence
// over DATABASE_URL; with neither, dev-like environments run in memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	if strings.TrimSpace(cfg.MongoURI) != "" {
		mdb, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.Mongo = mdb
	} else {
		sqlDB, err := buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.DB = sqlDB
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Store = store

	if err := buildServices(ctx, app); err != nil {
		app.Close(ctx)
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       app.Config,
		SoilHandler:  app.SoilHandler,
		UsersHandler: app.UsersHandler,
		GoogleAuth:   app.GoogleAuth,
		Health:       app.Health,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"repositories": app.backend(),
		"object_store": cfg.ObjectStoreType,
	})
	return app, nil
}

// Close releases database connections.
func (a *App) Close(ctx context.Context) {
	if a.Mongo != nil {
		if err := a.Mongo.Client().Disconnect(ctx); err != nil {
			telemetry.Warn("bootstrap.mongo_disconnect_failed", map[string]any{"error": err.Error()})
		}
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func (a *App) backend() string {
	switch {
	case a.Mongo != nil:
		return "mongo"
	case a.DB != nil:
		return "postgres"
	default:
		return "memory"
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL or MONGO_URI is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.DetectProfile())
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "gcs":
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, errors.New("OBJECT_STORE=gcs requires GCS_BUCKET")
		}
		return gcsstore.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	switch {
	case app.Mongo != nil:
		soilRepo, err := soilanalyses.NewMongoRepo(ctx, app.Mongo)
		if err != nil {
			return err
		}
		userRepo, err := users.NewMongoRepo(ctx, app.Mongo)
		if err != nil {
			return err
		}
		app.SoilRepo, app.UsersRepo = soilRepo, userRepo
	case app.DB != nil:
		app.SoilRepo = &soilanalyses.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	default:
		app.SoilRepo = soilanalyses.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.SoilService = &soilanalyses.Service{Repo: app.SoilRepo, Store: app.Store}
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
	app.UsersHandler = users.NewHandler(app.UsersService)

	app.Health = health.NewService()
	if app.DB != nil {
		app.Health.Register("postgres", db.Checker(app.DB, 2*time.Second))
	}
	if app.Mongo != nil {
		app.Health.Register("mongo", func(ctx context.Context) error {
			return app.Mongo.Client().Ping(ctx, nil)
		})
	}
	app.SoilHandler = soilanalyses.NewHandler(app.SoilService)

	if app.SoilHandler == nil || app.UsersHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
