package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/config"
	"github.com/assignmate/submission-service/internal/delivery/httpd"
	"github.com/assignmate/submission-service/internal/proxy"
	"github.com/assignmate/submission-service/internal/ratelimit"
	"github.com/assignmate/submission-service/internal/repository"
	"github.com/assignmate/submission-service/internal/service"
	"github.com/assignmate/submission-service/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	limiter   *ratelimit.Limiter
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Репозиторий MinIO + ретраи загрузки поверх него
	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		cfg.MinIO.Timeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	storageRepo := repository.NewRetryingStorage(minioRepo, repository.RetryConfig{
		Attempts:       cfg.Storage.UploadRetries,
		Backoff:        cfg.Storage.RetryBackoff,
		AttemptTimeout: cfg.Storage.AttemptTimeout,
	}, log)

	submissionRepo := repository.NewSubmissionRepository(db, log)
	documentRepo := repository.NewDocumentRepository(db, log)
	contactRepo := repository.NewContactRepository(db, log)

	// Публикация событий включается конфигом; без брокера сервис работает
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = integration.NewRabbitMQPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			return nil, err
		}
	}

	uploadService := service.NewUploadService(submissionRepo, documentRepo, storageRepo, publisher, log)
	contactService := service.NewContactService(contactRepo, log)

	limiter := ratelimit.New(
		cfg.RateLimit.MaxRequests,
		cfg.RateLimit.Window,
		cfg.RateLimit.SweepInterval,
	)

	usersProxy, err := proxy.New(cfg.UsersAPI.BaseURL, cfg.UsersAPI.Timeout, log)
	if err != nil {
		return nil, err
	}

	handler := httpd.NewHandler(
		uploadService,
		contactService,
		submissionRepo,
		documentRepo,
		storageRepo,
		limiter,
		usersProxy,
		cfg.Server.MaxFormMemory,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		limiter:   limiter,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting submission service on %s", a.config.Server.Address)

	// ErrServerClosed приходит при штатном Shutdown и ошибкой не является
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down submission service...")

	a.limiter.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
