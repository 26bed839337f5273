package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sportcity/escenarios-export/internal/api/handler"
	"github.com/sportcity/escenarios-export/internal/api/router"
	"github.com/sportcity/escenarios-export/internal/config"
	"github.com/sportcity/escenarios-export/internal/export"
	"github.com/sportcity/escenarios-export/internal/export/filewriter"
	"github.com/sportcity/escenarios-export/internal/export/jobstore"
	"github.com/sportcity/escenarios-export/internal/export/notify"
	"github.com/sportcity/escenarios-export/internal/repository"
	"github.com/sportcity/escenarios-export/shared/logger"
	"github.com/sportcity/escenarios-export/shared/postgresql"
	"github.com/sportcity/escenarios-export/shared/rabbitmq"
	sharedredis "github.com/sportcity/escenarios-export/shared/redis"
)

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

	defaultConfigPath := os.Getenv("EXPORT_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/export-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := logger.New(&logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		EnableSource: cfg.Logging.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting export service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// PostgreSQL: row repositories for the exported entities
	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	// Redis: durable job store. A Redis that is down at startup is
	// tolerated; the resilient facade falls back to memory.
	redisClient := sharedredis.NewClient(&sharedredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	}, appLogger.Logger)
	defer redisClient.Close()

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()

	redisStore := jobstore.NewRedisStore(redisClient.GetClient(), appLogger.Logger)
	jobs := jobstore.NewResilient(monitorCtx, redisStore, jobstore.NewMemoryStore(), appLogger.Logger)
	jobs.StartHealthMonitor(monitorCtx, cfg.Export.HealthInterval)

	appLogger.Info("Job store initialized",
		slog.String("backend", jobs.ActiveBackend()),
	)

	// Optional RabbitMQ notifier for job lifecycle events
	var notifier export.Notifier
	var rabbitClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err = rabbitmq.NewClient(&rabbitmq.Config{
			Host:              cfg.RabbitMQ.Host,
			Port:              cfg.RabbitMQ.Port,
			User:              cfg.RabbitMQ.User,
			Password:          cfg.RabbitMQ.Password,
			VHost:             cfg.RabbitMQ.VHost,
			ExchangeName:      cfg.RabbitMQ.ExchangeName,
			ExchangeType:      cfg.RabbitMQ.ExchangeType,
			ExchangeDurable:   cfg.RabbitMQ.ExchangeDurable,
			RetryAttempts:     cfg.RabbitMQ.RetryAttempts,
			RetryInterval:     cfg.RabbitMQ.RetryInterval,
			Heartbeat:         cfg.RabbitMQ.Heartbeat,
			ConnectionTimeout: cfg.RabbitMQ.ConnectionTimeout,
		}, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		defer rabbitClient.Close()
		notifier = notify.NewAMQPNotifier(rabbitClient, appLogger.Logger)
	}

	writer, err := filewriter.New(cfg.Export.Dir, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize file writer: %w", err)
	}

	db := dbClient.GetDB()
	scenarioRepo := repository.NewScenarioRepository(db)
	subScenarioRepo := repository.NewSubScenarioRepository(db)
	neighborhoodRepo := repository.NewNeighborhoodRepository(db)
	activityAreaRepo := repository.NewActivityAreaRepository(db)

	scenarioExporter := export.NewExporter(&export.Config{
		Source:       export.NewScenarioSource(scenarioRepo, neighborhoodRepo, cfg.Export.FetchLimit),
		Jobs:         jobs,
		Writer:       writer,
		Notifier:     notifier,
		Logger:       appLogger.Logger,
		DownloadBase: "/api/v1/scenarios/export",
		Retention:    cfg.Export.JobRetention,
	})

	subScenarioExporter := export.NewExporter(&export.Config{
		Source:       export.NewSubScenarioSource(subScenarioRepo, scenarioRepo, activityAreaRepo, cfg.Export.FetchLimit),
		Jobs:         jobs,
		Writer:       writer,
		Notifier:     notifier,
		Logger:       appLogger.Logger,
		DownloadBase: "/api/v1/sub-scenarios/export",
		Retention:    cfg.Export.JobRetention,
	})

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := router.SetupRouter(&handler.Dependencies{
		Logger:       appLogger.Logger,
		Scenarios:    scenarioExporter,
		SubScenarios: subScenarioExporter,
		Jobs:         jobs,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("Export service is running",
		slog.String("address", addr),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	// Let in-flight background exports reach a terminal job state
	// before connections are torn down.
	scenarioExporter.Wait()
	subScenarioExporter.Wait()

	appLogger.Info("Server shutdown complete")
	return nil
}
