package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"search-service/internal/adapters/authclient"
	"search-service/internal/adapters/dataset"
	"search-service/internal/adapters/gebeta"
	logger_adapter "search-service/internal/adapters/logger"
	postgres_adapter "search-service/internal/adapters/postgres"
	rabbitmq_adapter "search-service/internal/adapters/rabbitmq"
	redis_adapter "search-service/internal/adapters/redis"
	"search-service/internal/adapters/rest"
	"search-service/internal/adapters/scheduler"
	"search-service/internal/adapters/userclient"
	"search-service/internal/configs"
	"search-service/internal/constants"
	"search-service/internal/core/domain"
	"search-service/internal/core/port"
	"search-service/internal/core/usecase"
	fluentlogger "search-service/pkg/fluent_logger"
	"search-service/pkg/postgres"
	"search-service/pkg/rabbitmq/rabbitmq_common"
	"search-service/pkg/rabbitmq/rabbitmq_producer"
	pkgredis "search-service/pkg/redis"
	"search-service/pkg/retry"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	redis     *goredis.Client
	apiServer *rest.Server
	scheduler *scheduler.CacheClearScheduler

	rabbitConn     *rabbitmq_common.ConnectionManager
	eventsProducer *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewBaseLogger builds the stdout logger and, when enabled, the Fluent Bit
// logger behind one multi-logger. The fluent client is nil when disabled.
func NewBaseLogger(cfg *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			_ = fluentClient.Close()
			return nil, nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	baseLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
	})
	return baseLogger, fluentClient, nil
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, fluentClient, err := NewBaseLogger(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})

	a := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	if err := a.init(baseLogger); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// init builds every dependency. On error the caller releases whatever was
// already opened with close.
func (a *App) init(baseLogger port.LoggerPort) error {
	cfg := a.config
	ctx := context.Background()

	// --- storage ---
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    int32(cfg.Database.MaxConns),
	})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	a.logger.Info("Successfully connected to PostgreSQL pool!", nil)

	propertyRepo, err := postgres_adapter.NewPostgresPropertyRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create property repository: %w", err)
	}
	savedSearchRepo, err := postgres_adapter.NewPostgresSavedSearchRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create saved search repository: %w", err)
	}

	redisClient, err := pkgredis.NewClient(ctx, pkgredis.Config{URL: cfg.Redis.URL, OpTimeout: 3 * time.Second})
	if err != nil {
		a.logger.Error("Failed to connect to Redis", err, nil)
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.redis = redisClient
	a.logger.Info("Successfully connected to Redis!", nil)

	cacheStore, err := redis_adapter.NewRedisCacheStore(redisClient)
	if err != nil {
		return fmt.Errorf("failed to create cache store: %w", err)
	}

	// --- external services ---
	units, err := domain.ParseMatrixUnitPolicy(cfg.Gebeta.MatrixUnits)
	if err != nil {
		return fmt.Errorf("invalid GEBETA_MATRIX_UNITS: %w", err)
	}
	gebetaClient := gebeta.NewClient(gebeta.Config{
		APIKey:     cfg.Gebeta.APIKey,
		RouteURL:   cfg.Gebeta.RouteURL,
		MatrixURL:  cfg.Gebeta.MatrixURL,
		GeocodeURL: cfg.Gebeta.GeocodeURL,
		TileURL:    cfg.Gebeta.TileURL,
		Timeout:    cfg.Gebeta.RequestTimeout,
	}, nil)
	fallback := domain.GeoPoint{Lat: cfg.GeoPolicy.FallbackLat, Lon: cfg.GeoPolicy.FallbackLon}
	routing := usecase.NewCachedRoutingGateway(gebetaClient, cacheStore, retry.DefaultPolicy(), fallback)

	contacts := userclient.NewClient(cfg.UserService.URL, cfg.UserService.ContactTimeout)
	verifier := authclient.NewClient(cfg.UserService.URL, cfg.UserService.VerifyTimeout)
	destinations := dataset.NewFileDestinationDataset(cfg.Dataset.RoutesDataPath)
	if _, err := destinations.Catalog(); err != nil {
		// nearest/route answer 500 until the file is fixed; search keeps working
		a.logger.Error("Destination dataset failed to load", err, port.Fields{"path": cfg.Dataset.RoutesDataPath})
	}

	publisher, err := a.initPublisher(baseLogger)
	if err != nil {
		return err
	}
	a.logger.Info("All persistence and service adapters initialized.", nil)

	// --- use cases ---
	links := usecase.MapLinkBuilder{StaticMapURL: cfg.Gebeta.StaticMapURL, APIKey: cfg.Gebeta.APIKey}
	referenceOrigin := domain.GeoPoint{Lat: cfg.GeoPolicy.ReferenceOriginLat, Lon: cfg.GeoPolicy.ReferenceOriginLon}

	searchUC := usecase.NewSearchPropertiesUseCase(propertyRepo, cacheStore, routing, contacts, links)
	listApprovedUC := usecase.NewListApprovedPropertiesUseCase(propertyRepo, cacheStore, contacts, links)
	getPropertyUC := usecase.NewGetPropertyUseCase(propertyRepo, contacts, links, referenceOrigin)
	saveSearchUC := usecase.NewSaveSearchUseCase(savedSearchRepo, publisher)
	clearCacheUC := usecase.NewClearCacheUseCase(cacheStore)
	nearestUC := usecase.NewNearestDestinationsUseCase(destinations, routing, units)
	routeUC := usecase.NewComputeRouteUseCase(destinations, routing)
	geocodeUC := usecase.NewGeocodeUseCase(routing)
	tileUC := usecase.NewMapTileUseCase(routing)
	readinessUC := usecase.NewReadinessUseCase(cacheStore, propertyRepo)

	// --- transport ---
	var limiter *rest.RateLimiter
	if cfg.Rest.RateLimitEnabled {
		limiter = rest.NewRateLimiter(cacheStore)
	}
	handlers := rest.Handlers{
		Search:  rest.NewSearchHandler(searchUC, listApprovedUC, getPropertyUC, saveSearchUC, clearCacheUC),
		Routing: rest.NewRoutingHandler(routeUC, nearestUC, geocodeUC, tileUC),
		Preview: rest.NewPreviewHandler(),
		Health:  rest.NewHealthHandler(readinessUC),
	}
	a.apiServer = rest.NewServer(rest.ServerConfig{
		Port:               cfg.Rest.PORT,
		CORSAllowedOrigins: cfg.Rest.CORSAllowedOrigins,
		TrustedProxies:     cfg.Rest.TrustedProxies,
	}, handlers, rest.NewAuthMiddleware(verifier), limiter, baseLogger)
	a.logger.Info("REST API server configured.", nil)

	a.scheduler = scheduler.New(cfg.Scheduler.CacheClearCron, clearCacheUC, baseLogger)
	return nil
}

func (a *App) initPublisher(baseLogger port.LoggerPort) (port.SavedSearchEventPublisherPort, error) {
	cfg := a.config
	if !cfg.RabbitMQ.Enabled {
		a.logger.Info("RabbitMQ disabled, saved search events will not be published", nil)
		return rabbitmq_adapter.NoopSavedSearchPublisher{}, nil
	}

	connManagerLogger := rabbitmq_adapter.NewBrokerLogger(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(cfg.RabbitMQ.URL, connManagerLogger)
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.rabbitConn = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		ExchangeName:             constants.SearchExchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewBrokerLogger(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create events producer: %w", err)
	}
	a.eventsProducer = producer

	publisher, err := rabbitmq_adapter.NewSavedSearchPublisherAdapter(producer, constants.SavedSearchCreatedRoutingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create saved search publisher: %w", err)
	}
	return publisher, nil
}

// Run starts the server and the scheduler and blocks until a signal or a
// server failure.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()
	defer a.close()

	a.logger.Info("Application is starting...", nil)

	if err := a.scheduler.Start(appCtx); err != nil {
		a.logger.Error("Failed to start cache clear scheduler", err, nil)
		return err
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		return err
	}
	return nil
}

// close releases everything in reverse order of creation. It tolerates a
// partially initialised App.
func (a *App) close() {
	a.logger.Info("Shutdown sequence initiated...", nil)

	if a.apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.apiServer.Stop(ctx); err != nil {
			a.logger.Error("Error during API server shutdown", err, nil)
		}
		cancel()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.eventsProducer != nil {
		if err := a.eventsProducer.Close(); err != nil {
			a.logger.Error("Error closing events producer", err, nil)
		}
	}
	if a.rabbitConn != nil {
		if err := a.rabbitConn.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent may already be gone, so stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	level, ok := logger_adapter.ParseLevel(levelStr)
	if !ok {
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
	}
	return level
}
