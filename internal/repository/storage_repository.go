package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type StoredObject struct {
	Key string
	URL string
}

type StorageRepository interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, objectKey string) error
	Exists(ctx context.Context, objectKey string) (bool, error)
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

type RetryConfig struct {
	Attempts       int
	Backoff        time.Duration
	AttemptTimeout time.Duration
}

// retryingStorage оборачивает провайдера хранилища ретраями загрузки:
// до Attempts попыток с линейным backoff (Backoff × номер попытки).
// Таймаут каждой попытки отсчитывается от context.Background() — разрыв
// соединения с клиентом не прерывает начатую загрузку.
type retryingStorage struct {
	provider StorageRepository
	cfg      RetryConfig
	logger   zerolog.Logger
}

func NewRetryingStorage(provider StorageRepository, cfg RetryConfig, logger zerolog.Logger) StorageRepository {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 60 * time.Second
	}

	return &retryingStorage{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

func (r *retryingStorage) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (*StoredObject, error) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(r.cfg.Backoff * time.Duration(attempt-1))
			r.logger.Info().
				Str("object", objectKey).
				Int("attempt", attempt).
				Msg("Retrying storage upload")
		}

		attemptCtx, cancel := context.WithTimeout(context.Background(), r.cfg.AttemptTimeout)
		object, err := r.provider.Upload(attemptCtx, objectKey, data, contentType)
		cancel()

		if err == nil {
			return object, nil
		}

		lastErr = err
		r.logger.Warn().Err(err).
			Str("object", objectKey).
			Int("attempt", attempt).
			Msg("Storage upload attempt failed")
	}

	return nil, fmt.Errorf("upload failed after %d attempts: %w", r.cfg.Attempts, lastErr)
}

func (r *retryingStorage) Delete(ctx context.Context, objectKey string) error {
	return r.provider.Delete(ctx, objectKey)
}

func (r *retryingStorage) Exists(ctx context.Context, objectKey string) (bool, error) {
	return r.provider.Exists(ctx, objectKey)
}

func (r *retryingStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return r.provider.PresignedURL(ctx, objectKey, expiry)
}
