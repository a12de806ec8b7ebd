package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/auth"
	"github.com/cuongbtq/jobster-api/internal/api/handler"
	"github.com/cuongbtq/jobster-api/internal/api/router"
	"github.com/cuongbtq/jobster-api/internal/api/storage"
	"github.com/cuongbtq/jobster-api/internal/config"
	"github.com/cuongbtq/jobster-api/internal/events"
	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/cuongbtq/jobster-api/shared/logger"
	"github.com/cuongbtq/jobster-api/shared/mongodb"
	"github.com/cuongbtq/jobster-api/shared/postgresql"
	"github.com/cuongbtq/jobster-api/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const startupTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage_driver", cfg.Storage.Driver),
	)

	if cfg.Metrics.Enabled {
		metrics.MustRegister()
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStartup()

	// Initialize job store
	store, storeCheck, closeStore, err := initStore(startupCtx, cfg, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize job store: %w", err)
	}
	closers = append(closers, closeStore)
	healthChecks := []handler.HealthCheck{storeCheck}

	appLogger.Info("Job store ready", slog.String("driver", cfg.Storage.Driver))

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		closers = append(closers, func() { _ = rabbitClient.Close() })
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "rabbitmq", Check: rabbitClient.HealthCheck})

		publisher = events.NewRabbitPublisher(rabbitClient, cfg.RabbitMQ.Publish.Timeout, appLogger.Logger)
		appLogger.Info("RabbitMQ connection established")
	} else {
		appLogger.Info("Job events disabled")
	}

	// Initialize router
	r := initRouter(cfg, &handler.Dependencies{
		Logger:       appLogger.Logger,
		Store:        store,
		Publisher:    publisher,
		Auth:         auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		HealthChecks: healthChecks,
		ServiceName:  cfg.App.Name,
	})

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		appLogger.Error("Server failed", slog.Any("error", err))
		return err
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}

// initStore connects the configured backend and prepares its schema or indexes
func initStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.JobStore, handler.HealthCheck, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(&mongodb.Config{
			URI:             cfg.MongoDB.URI,
			Database:        cfg.MongoDB.Database,
			MaxPoolSize:     cfg.MongoDB.MaxPoolSize,
			MinPoolSize:     cfg.MongoDB.MinPoolSize,
			ConnectTimeout:  cfg.MongoDB.ConnectTimeout,
			MaxConnIdleTime: cfg.MongoDB.MaxConnIdleTime,
		}, logger)
		if err != nil {
			return nil, handler.HealthCheck{}, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}

		store := storage.NewMongoStore(client, cfg.MongoDB.Collection, logger)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, handler.HealthCheck{}, nil, err
		}
		return store, handler.HealthCheck{Name: "mongodb", Check: client.HealthCheck}, closeFn, nil

	default:
		client, err := initPostgreSQL(&cfg.Database, logger)
		if err != nil {
			return nil, handler.HealthCheck{}, nil, err
		}
		closeFn := func() { _ = client.Close() }

		if cfg.Database.AutoMigrate {
			if err := client.Migrate(ctx, storage.JobsSchema...); err != nil {
				closeFn()
				return nil, handler.HealthCheck{}, nil, err
			}
		}
		return storage.NewPostgresStore(client, logger), handler.HealthCheck{Name: "postgres", Check: client.HealthCheck}, closeFn, nil
	}
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	return postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, deps *handler.Dependencies) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	opts := router.Options{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}

	return router.SetupRouter(deps, opts)
}
