package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/eion/userdir/internal/config"
	"github.com/eion/userdir/internal/events"
	"github.com/eion/userdir/internal/users"
)

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	UserStore   *users.InMemoryStore
	UserService users.UserService
	Publisher   events.Publisher
}

func main() {
	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	defer logger.Sync() //nolint:errcheck

	as, err := newAppState(config.Get(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	server := &http.Server{
		Addr:              config.Http().Addr(),
		Handler:           setupRouter(as),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, as, server); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}

	logger.Info("Server shutdown complete")
}

// newAppState creates and initializes the application state
func newAppState(cfg *config.Config, logger *zap.Logger) (*AppState, error) {
	seed := make([]users.CreateUserRequest, 0, len(cfg.Common.Users.Seed))
	for i, u := range cfg.Common.Users.Seed {
		if u.Name == "" || u.Email == "" {
			return nil, fmt.Errorf("seed user %d: name and email are required", i)
		}
		seed = append(seed, users.CreateUserRequest{Name: u.Name, Email: u.Email})
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	userStore := users.NewSeededStore(seed)
	userService := users.NewUserService(userStore, publisher, logger)

	logger.Info("User store initialized", zap.Int("seed_users", userStore.Count()))

	return &AppState{
		Logger:      logger,
		Config:      cfg,
		UserStore:   userStore,
		UserService: userService,
		Publisher:   publisher,
	}, nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	ev := cfg.Common.Events
	if !ev.Enabled {
		return events.NopPublisher{}, nil
	}

	logger.Info("User events enabled",
		zap.Strings("brokers", ev.Kafka.Brokers),
		zap.String("topic", ev.Kafka.Topic))

	return events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      ev.Kafka.Brokers,
		Topic:        ev.Kafka.Topic,
		BatchTimeout: time.Duration(ev.Kafka.BatchTimeout) * time.Millisecond,
	}, logger)
}

// run serves until ctx is cancelled or the listener fails, then shuts the
// server down and closes the publisher.
func run(ctx context.Context, as *AppState, server *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		as.Logger.Info("Starting userdir server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		as.Logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			as.Logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := as.Publisher.Close(); err != nil {
			as.Logger.Error("Error closing event publisher", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}
