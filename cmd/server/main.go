package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/command"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/config"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/handler"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/logging"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/query"
	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/events"
	redisClient "github.com/ilhamAmgoun200/E-BankingApp/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Lifecycle events (optional)
	var publisher events.Emitter = events.NopPublisher{}
	if cfg.RedisAddr != "" {
		redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client)
	} else {
		logger.Info("REDIS_ADDR not set, lifecycle events disabled")
	}

	// --- CQRS wiring ---
	opts := []command.Option{
		command.WithInsertAttempts(cfg.AccountNumberInsertAttempts),
		command.WithBcryptCost(cfg.BcryptCost),
	}
	accountCommands := command.NewAccountCommandService(store, publisher, logger, opts...)
	userCommands := command.NewUserCommandService(store, publisher, logger, opts...)
	accountQueries := query.NewAccountQueryService(store)
	userQueries := query.NewUserQueryService(store, logger)

	router := handler.NewRouter(handler.RouterConfig{
		Accounts:       handler.NewAccountHandler(accountCommands, accountQueries, userQueries, logger),
		Users:          handler.NewUserHandler(userCommands, userQueries, logger),
		Health:         store,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("E-Banking API starting", "port", cfg.ServerPort, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server exited")
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, repository.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database schema applied")
	}
	return repository.NewPostgresStore(db), closeDB(db, logger), nil
}

func closeDB(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}
}
