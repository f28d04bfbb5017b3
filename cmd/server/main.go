package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/adapters/event"
	httpAdapter "github.com/khoahotran/profile-builder/adapters/http"
	"github.com/khoahotran/profile-builder/adapters/media_storage"
	"github.com/khoahotran/profile-builder/adapters/persistence"
	"github.com/khoahotran/profile-builder/internal/application/service"
	profileUC "github.com/khoahotran/profile-builder/internal/application/usecase/profile"
	"github.com/khoahotran/profile-builder/internal/config"
	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
	"github.com/khoahotran/profile-builder/pkg/tracing"
)

func main() {
	fmt.Println("Start Profile Builder API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: cannot load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	tp, err := tracing.NewTracerProvider(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Warn("Tracing disabled", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	// Repositories
	profileRepo, closeStore := newProfileRepository(ctx, cfg, appLogger)
	defer closeStore()

	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, profile cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			profileRepo = persistence.NewCachedProfileRepo(profileRepo, redisClient, cfg.Redis.TTL, appLogger)
		}
	} else {
		appLogger.Warn("Redis not configured, profile cache disabled")
	}

	// Services
	var publisher service.EventPublisher = event.LogPublisher{Logger: appLogger}
	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Kafka not configured, profile events are only logged", zap.Error(err))
	} else {
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	assets, err := media_storage.NewLocalDiskAdapter(cfg.Storage.UploadDir)
	if err != nil {
		appLogger.Fatal("Failed to initialize upload directory", err)
	}

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(
		profileRepo,
		assets,
		publisher,
		appLogger,
		profileUC.WithMaxPictureBytes(cfg.Storage.MaxUploadBytes),
	)

	// HTTP Handlers
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase, appLogger)
	pictureHandler := httpAdapter.NewPictureHandler(profileUseCase, appLogger)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		UploadDir:      cfg.Storage.UploadDir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, profileHandler, pictureHandler, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

// newProfileRepository connects the configured store. Failing to reach it is fatal.
func newProfileRepository(ctx context.Context, cfg config.Config, log logger.Logger) (profile.Repository, func()) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		dbPool, err := persistence.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal("Cannot connect Postgres", err)
		}
		return persistence.NewPostgresProfileRepo(dbPool, log), dbPool.Close

	case config.StoreMongo:
		db, err := persistence.NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			log.Fatal("Cannot connect MongoDB", err)
		}
		repo := persistence.NewMongoProfileRepo(db, log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal("Cannot prepare MongoDB indexes", err)
		}
		return repo, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(disconnectCtx)
		}

	case config.StoreMemory:
		log.Warn("Using in-memory profile store, data is lost on restart")
		return persistence.NewMemoryProfileRepo(), func() {}

	default:
		log.Fatal("Unknown store driver", fmt.Errorf("store.driver %q", cfg.Store.Driver))
		return nil, nil
	}
}
