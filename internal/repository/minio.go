package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

type MinIORepository struct {
	client   *minio.Client
	endpoint string
	bucket   string
	region   string
	useSSL   bool
	logger   zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, connectTimeout time.Duration, logger zerolog.Logger) (*MinIORepository, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		region:   region,
		useSSL:   useSSL,
		logger:   logger,
	}

	// Best-effort bootstrap: на старте не валим сервис, если MinIO еще не
	// готов — бакет будет создан при первой загрузке.
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	} else {
		logger.Info().
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Bool("ssl", useSSL).
			Msg("Connected to MinIO")
	}

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
	}

	r.bucketEnsured = true
	return nil
}

func (r *MinIORepository) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (*StoredObject, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, err
	}

	uploadInfo, err := r.client.PutObject(ctx, r.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("object", objectKey).
		Str("etag", uploadInfo.ETag).
		Int64("size", int64(len(data))).
		Msg("Object uploaded to MinIO")

	return &StoredObject{
		Key: objectKey,
		URL: r.objectURL(objectKey),
	}, nil
}

func (r *MinIORepository) Delete(ctx context.Context, objectKey string) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	if err := r.client.RemoveObject(ctx, r.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	r.logger.Debug().
		Str("bucket", r.bucket).
		Str("object", objectKey).
		Msg("Object deleted from MinIO")

	return nil
}

func (r *MinIORepository) Exists(ctx context.Context, objectKey string) (bool, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return false, err
	}

	_, err := r.client.StatObject(ctx, r.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

func (r *MinIORepository) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	exists, err := r.Exists(ctx, objectKey)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.New("object not found")
	}

	url, err := r.client.PresignedGetObject(ctx, r.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

func (r *MinIORepository) objectURL(objectKey string) string {
	scheme := "http"
	if r.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, r.endpoint, r.bucket, objectKey)
}
