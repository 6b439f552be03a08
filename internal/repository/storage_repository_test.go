package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type flakyStorage struct {
	failures int
	calls    int
	lastErr  error
}

func (f *flakyStorage) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (*StoredObject, error) {
	f.calls++
	if f.calls <= f.failures {
		f.lastErr = errors.New("connection reset")
		return nil, f.lastErr
	}
	return &StoredObject{Key: objectKey, URL: "http://storage/" + objectKey}, nil
}

func (f *flakyStorage) Delete(ctx context.Context, objectKey string) error { return nil }

func (f *flakyStorage) Exists(ctx context.Context, objectKey string) (bool, error) {
	return true, nil
}

func (f *flakyStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "http://storage/presigned/" + objectKey, nil
}

func TestRetryingStorageSucceedsAfterRetries(t *testing.T) {
	provider := &flakyStorage{failures: 2}
	storage := NewRetryingStorage(provider, RetryConfig{
		Attempts:       3,
		Backoff:        time.Millisecond,
		AttemptTimeout: time.Second,
	}, zerolog.Nop())

	object, err := storage.Upload(context.Background(), "assignments/key.pdf", []byte("data"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", provider.calls)
	}
	if object.Key != "assignments/key.pdf" {
		t.Errorf("object key = %q", object.Key)
	}
}

func TestRetryingStorageExhaustsAttempts(t *testing.T) {
	provider := &flakyStorage{failures: 10}
	storage := NewRetryingStorage(provider, RetryConfig{
		Attempts:       3,
		Backoff:        time.Millisecond,
		AttemptTimeout: time.Second,
	}, zerolog.Nop())

	_, err := storage.Upload(context.Background(), "assignments/key.pdf", []byte("data"), "application/pdf")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if provider.calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", provider.calls)
	}
	if !errors.Is(err, provider.lastErr) {
		t.Errorf("expected last provider error in chain, got %v", err)
	}
}

func TestRetryingStorageDefaults(t *testing.T) {
	provider := &flakyStorage{failures: 0}
	storage := NewRetryingStorage(provider, RetryConfig{}, zerolog.Nop())

	if _, err := storage.Upload(context.Background(), "k", nil, "text/plain"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected a single attempt, got %d", provider.calls)
	}
}
