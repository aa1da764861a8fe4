package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	elastic_adapter "landmark-service/internal/adapters/elastic"
	geocoding_adapter "landmark-service/internal/adapters/geocoding"
	gridfs_adapter "landmark-service/internal/adapters/gridfs"
	token_adapter "landmark-service/internal/adapters/jwt"
	logger_adapter "landmark-service/internal/adapters/logger"
	"landmark-service/internal/adapters/notifier"
	oauth_adapter "landmark-service/internal/adapters/oauth"
	postgres_adapter "landmark-service/internal/adapters/postgres"
	rabbitmq_adapter "landmark-service/internal/adapters/rabbitmq"
	"landmark-service/internal/adapters/rest"
	"landmark-service/internal/configs"
	"landmark-service/internal/constants"
	"landmark-service/internal/core/port"
	"landmark-service/internal/core/port/usecases_port"
	"landmark-service/internal/core/usecase"
	fluentlogger "landmark-service/pkg/fluent_logger"
	"landmark-service/pkg/mongodb"
	"landmark-service/pkg/postgres"
	"landmark-service/pkg/rabbitmq/rabbitmq_common"
	"landmark-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

type App struct {
	config      *configs.AppConfig
	dbPool      *pgxpool.Pool
	mongoClient *mongo.Client
	apiServer   *rest.Server
	sseNotifier *notifier.SSENotifier

	connManager    *rabbitmq_common.ConnectionManager
	eventPublisher *rabbitmq_producer.Publisher

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- loggers ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{config: appConfig, logger: appLogger, fluentClient: fluentClient}
	if err := application.build(baseLogger); err != nil {
		application.closeResources()
		return nil, err
	}
	return application, nil
}

// build connects the stores, creates the adapters and use cases and configures the
// REST server. On error the caller releases whatever was already opened.
func (a *App) build(baseLogger port.LoggerPort) error {
	cfg := a.config
	appLogger := a.logger

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// --- stores ---
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    int32(cfg.Database.MaxConns),
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	if err := postgres_adapter.EnsureSchema(ctx, dbPool); err != nil {
		appLogger.Error("Failed to apply database schema", err, nil)
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	landmarkRepo, err := postgres_adapter.NewPostgresLandmarkRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create landmark repository: %w", err)
	}
	userRepo, err := postgres_adapter.NewPostgresUserRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}
	favoritesRepo, err := postgres_adapter.NewPostgresFavoritesRepository(dbPool)
	if err != nil {
		return fmt.Errorf("failed to create favourites repository: %w", err)
	}

	mongoClient, mongoDB, err := mongodb.NewClient(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		appLogger.Error("Failed to connect to MongoDB", err, nil)
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.mongoClient = mongoClient
	appLogger.Info("Successfully connected to MongoDB!", port.Fields{"database": cfg.Mongo.Database})

	blobStorage, err := gridfs_adapter.NewGridFSBlobStorage(mongoDB, cfg.Rest.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("failed to create blob storage: %w", err)
	}

	// --- optional integrations ---
	var geocoder port.GeocoderPort
	if cfg.Geocoding.Enabled {
		googleGeocoder, err := geocoding_adapter.NewGoogleGeocoder(geocoding_adapter.Config{
			APIKey:    cfg.Geocoding.APIKey,
			RateLimit: cfg.Geocoding.RateLimit,
			Timeout:   cfg.Geocoding.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create geocoder: %w", err)
		}
		geocoder = googleGeocoder
		appLogger.Info("Geocoder initialized.", nil)
	} else {
		appLogger.Warn("GEOCODING_API_KEY is not set, landmarks must carry coordinates.", nil)
	}

	var nearbyIndex port.NearbyIndexPort
	if cfg.Elastic.Enabled {
		esClient, err := elastic_adapter.NewClient(cfg.Elastic.URL)
		if err != nil {
			appLogger.Error("Failed to connect to Elasticsearch", err, nil)
			return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
		}
		esIndex, err := elastic_adapter.NewElasticNearbyIndex(esClient, cfg.Elastic.Index)
		if err != nil {
			return fmt.Errorf("failed to create nearby index: %w", err)
		}
		if err := esIndex.EnsureIndex(ctx); err != nil {
			appLogger.Error("Failed to ensure Elasticsearch index", err, nil)
			return fmt.Errorf("failed to ensure nearby index: %w", err)
		}
		nearbyIndex = esIndex
		appLogger.Info("Elasticsearch nearby index initialized.", port.Fields{"index": cfg.Elastic.Index})
	}

	var eventPublisher port.EventPublisherPort = rabbitmq_adapter.NoopEventPublisher{}
	if cfg.RabbitMQ.Enabled {
		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManager, err := rabbitmq_common.NewConnectionManager(
			rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
			rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
		)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return fmt.Errorf("failed to create connection manager: %w", err)
		}
		a.connManager = connManager

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             constants.ExchangeLandmarkEvents,
			ExchangeType:             constants.ExchangeTypeTopic,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, nil)
			return fmt.Errorf("failed to create event producer: %w", err)
		}
		a.eventPublisher = producer

		publisherAdapter, err := rabbitmq_adapter.NewEventPublisherAdapter(producer)
		if err != nil {
			return fmt.Errorf("failed to create event publisher adapter: %w", err)
		}
		eventPublisher = publisherAdapter
		appLogger.Info("RabbitMQ event publisher initialized.", nil)
	} else {
		appLogger.Warn("RABBITMQ_URL is not set, domain events are dropped.", nil)
	}

	tokenService, err := token_adapter.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	var oauthUC usecases_port.OAuthSignInUseCasePort
	if cfg.OAuth.Enabled {
		provider, err := oauth_adapter.NewGoogleProvider(oauth_adapter.GoogleConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create oauth provider: %w", err)
		}
		oauthUC = usecase.NewOAuthSignInUseCase(provider, userRepo, tokenService, cfg.Auth.AccessTokenTTL)
		appLogger.Info("Google sign-in enabled.", nil)
	}

	a.sseNotifier = notifier.NewSSENotifier(baseLogger)
	appLogger.Info("SSE Notifier initialized.", nil)

	// --- use cases ---
	listUC := usecase.NewListLandmarksUseCase(landmarkRepo)
	landmarkUCs := rest.LandmarkUseCases{
		List:      listUC,
		Home:      usecase.NewGetHomeLandmarksUseCase(listUC),
		Get:       usecase.NewGetLandmarkUseCase(landmarkRepo),
		Nearby:    usecase.NewFindNearbyLandmarksUseCase(landmarkRepo, nearbyIndex),
		Create:    usecase.NewCreateLandmarkUseCase(landmarkRepo, blobStorage, geocoder, nearbyIndex, eventPublisher, a.sseNotifier),
		Update:    usecase.NewUpdateLandmarkUseCase(landmarkRepo, blobStorage, geocoder, nearbyIndex, eventPublisher, a.sseNotifier),
		Delete:    usecase.NewDeleteLandmarkUseCase(landmarkRepo, favoritesRepo, blobStorage, nearbyIndex, eventPublisher),
		ListOwned: usecase.NewListUserLandmarksUseCase(landmarkRepo),
	}
	authUCs := rest.AuthUseCases{
		Register:      usecase.NewRegisterUserUseCase(userRepo, tokenService, cfg.Auth.AccessTokenTTL),
		Login:         usecase.NewLoginUserUseCase(userRepo, tokenService, cfg.Auth.AccessTokenTTL),
		RequestReset:  usecase.NewRequestPasswordResetUseCase(userRepo, tokenService, eventPublisher, cfg.Auth.ResetTokenTTL),
		ResetPassword: usecase.NewResetPasswordUseCase(userRepo, tokenService),
		OAuth:         oauthUC,
		GetProfile:    usecase.NewGetProfileUseCase(userRepo),
		UpdateProfile: usecase.NewUpdateProfileUseCase(userRepo),
	}
	socialHandler := rest.NewSocialHandler(
		usecase.NewToggleLikeUseCase(landmarkRepo),
		usecase.NewToggleFavouriteUseCase(landmarkRepo, favoritesRepo),
		usecase.NewGetUserFavouritesUseCase(favoritesRepo, landmarkRepo),
	)
	authMiddleware := rest.NewAuthMiddleware(usecase.NewValidateTokenUseCase(tokenService))
	appLogger.Info("All use cases initialized.", nil)

	// --- REST API ---
	a.apiServer = rest.NewServer(
		rest.ServerConfig{Port: cfg.Rest.PORT, AllowedOrigins: cfg.Rest.AllowedOrigins},
		rest.Handlers{
			Landmarks: rest.NewLandmarkHandler(landmarkUCs, blobStorage),
			Social:    socialHandler,
			Auth:      rest.NewAuthHandler(authUCs, cfg.Rest.SecureCookies),
			Uploads:   rest.NewUploadHandler(a.sseNotifier),
		},
		authMiddleware,
		rest.NewMetrics(),
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)

	return nil
}

func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if a.apiServer != nil {
			if err := a.apiServer.Stop(ctx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}
		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("HTTP server start error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
		return nil
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		return err
	}
}

// closeResources releases everything opened by NewApp, the logger client last.
func (a *App) closeResources() {
	if a.sseNotifier != nil {
		a.sseNotifier.Close()
	}

	if a.eventPublisher != nil {
		if err := a.eventPublisher.Close(); err != nil {
			a.logger.Error("Error closing event publisher", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}

	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.logger.Error("Error disconnecting MongoDB client", err, nil)
		}
		cancel()
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
