package app

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:       "127.0.0.1:0",
			MaxFormMemory: 32 << 20,
		},
		Storage: config.StorageConfig{
			BucketName: "assignments",
			Region:     "us-east-1",
		},
		MinIO: config.MinIOConfig{
			Endpoint:  "127.0.0.1:1",
			AccessKey: "test",
			SecretKey: "test",
			Timeout:   50 * time.Millisecond,
		},
		RateLimit: config.RateLimitConfig{
			MaxRequests:   10,
			Window:        5 * time.Minute,
			SweepInterval: time.Minute,
		},
		UsersAPI: config.UsersAPIConfig{
			BaseURL: "http://127.0.0.1:1/api",
			Timeout: time.Second,
		},
	}
}

// Штатный Shutdown не должен превращаться в ошибку Run.
func TestAppRunReturnsNilAfterShutdown(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}

	application, err := New(testConfig(), zerolog.Nop(), db)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- application.Run()
	}()

	time.Sleep(50 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run() after shutdown = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after shutdown")
	}
}
