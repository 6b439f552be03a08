package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
	"github.com/assignmate/submission-service/internal/repository"
)

type fakeStorage struct {
	calls     int
	uploadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (*repository.StoredObject, error) {
	f.calls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &repository.StoredObject{Key: objectKey, URL: "http://storage/" + objectKey}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, objectKey string) error { return nil }

func (f *fakeStorage) Exists(ctx context.Context, objectKey string) (bool, error) {
	return true, nil
}

func (f *fakeStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "http://storage/presigned/" + objectKey, nil
}

func validRequest() *models.SubmissionRequest {
	return &models.SubmissionRequest{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+19876543210",
		FileName:  "thesis.pdf",
		FileType:  "application/pdf",
		FileSize:  2 * 1024 * 1024,
		FileBytes: []byte("%PDF-1.4 fake"),
	}
}

func newTestService(t *testing.T, storage repository.StorageRepository) (UploadService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}

	submissionRepo := repository.NewSubmissionRepository(db, zerolog.Nop())
	documentRepo := repository.NewDocumentRepository(db, zerolog.Nop())
	svc := NewUploadService(submissionRepo, documentRepo, storage, nil, zerolog.Nop())

	return svc, mock, func() { db.Close() }
}

func TestSubmitAssignmentHappyPath(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO submissions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	response, err := svc.SubmitAssignment(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("SubmitAssignment() error = %v", err)
	}

	if response.Assignment.Status != models.SubmissionStatusPending.String() {
		t.Errorf("assignment status = %q, want pending", response.Assignment.Status)
	}
	if response.Assignment.Email != "jane@example.com" {
		t.Errorf("assignment email = %q", response.Assignment.Email)
	}
	if response.Document.Filename != "thesis.pdf" {
		t.Errorf("document filename = %q", response.Document.Filename)
	}
	if response.Document.URL == "" || response.Document.ID == "" {
		t.Errorf("document not populated: %+v", response.Document)
	}
	if storage.calls != 1 {
		t.Errorf("storage upload calls = %d, want 1", storage.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubmitAssignmentRollsBackWhenDocumentInsertFails(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO submissions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := svc.SubmitAssignment(context.Background(), validRequest())
	if err == nil {
		t.Fatal("expected error when document insert fails")
	}
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}

	// Роллбэк, а не коммит: заявка без документа не должна сохраниться
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubmitAssignmentRollsBackWhenCommitFails(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO submissions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("server closed connection"))

	_, err := svc.SubmitAssignment(context.Background(), validRequest())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestSubmitAssignmentStorageFailure(t *testing.T) {
	storage := &fakeStorage{uploadErr: errors.New("minio unreachable")}
	svc, _, cleanup := newTestService(t, storage)
	defer cleanup()

	_, err := svc.SubmitAssignment(context.Background(), validRequest())
	if !errors.Is(err, ErrStorageUpload) {
		t.Fatalf("expected ErrStorageUpload, got %v", err)
	}
}

func TestSubmitAssignmentInvalidFileNeverReachesStorage(t *testing.T) {
	storage := &fakeStorage{}
	svc, _, cleanup := newTestService(t, storage)
	defer cleanup()

	req := validRequest()
	req.FileName = "archive.zip"
	req.FileType = "application/zip"

	_, err := svc.SubmitAssignment(context.Background(), req)
	if _, ok := IsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if storage.calls != 0 {
		t.Errorf("invalid file reached storage: %d calls", storage.calls)
	}
}

func TestSubmitAssignmentOversizeFileNeverReachesStorage(t *testing.T) {
	storage := &fakeStorage{}
	svc, _, cleanup := newTestService(t, storage)
	defer cleanup()

	req := validRequest()
	req.FileSize = 11 * 1024 * 1024

	_, err := svc.SubmitAssignment(context.Background(), req)
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Details == "" {
		t.Error("expected details with received size")
	}
	if storage.calls != 0 {
		t.Errorf("oversize file reached storage: %d calls", storage.calls)
	}
}

func TestSubmitAssignmentFieldFormatOrder(t *testing.T) {
	storage := &fakeStorage{}
	svc, _, cleanup := newTestService(t, storage)
	defer cleanup()

	// Email проверяется первым
	req := validRequest()
	req.Email = "not-an-email"
	req.Phone = "123"
	if _, err := svc.SubmitAssignment(context.Background(), req); err == nil || err.Error() != "Invalid email format" {
		t.Errorf("expected email failure first, got %v", err)
	}

	req = validRequest()
	req.Phone = "123"
	req.Name = "J"
	if _, err := svc.SubmitAssignment(context.Background(), req); err == nil || err.Error() != "Invalid phone number format" {
		t.Errorf("expected phone failure before name, got %v", err)
	}

	req = validRequest()
	req.Name = "J"
	if _, err := svc.SubmitAssignment(context.Background(), req); err == nil || err.Error() != "Name must be at least 2 characters long" {
		t.Errorf("expected name failure, got %v", err)
	}
}

func TestUpdateSubmissionStatusRejectsUnknownStatus(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	err := svc.UpdateSubmissionStatus(context.Background(), "sub-1", "archived")
	if _, ok := IsValidationError(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Невалидный статус не должен дойти до БД
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateSubmissionStatusNotFound(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := svc.UpdateSubmissionStatus(context.Background(), "missing", "in-progress")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateSubmissionStatusInProgress(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE submissions").
		WithArgs("in-progress", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.UpdateSubmissionStatus(context.Background(), "sub-1", "in-progress"); err != nil {
		t.Fatalf("UpdateSubmissionStatus() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateSubmissionStatusCompletedMarksDocumentProcessed(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE submissions").
		WithArgs("completed", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	mock.ExpectQuery("FROM documents").
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "url", "filename", "file_size", "file_type", "object_key",
			"status", "submission_id", "created_at", "updated_at",
		}).AddRow(
			"doc-1", "http://x/y", "thesis.pdf", int64(2048), "application/pdf",
			"assignments/2026/01/02/abc_thesis.pdf", "pending", "sub-1", now, now,
		))
	mock.ExpectExec("UPDATE documents").
		WithArgs(models.DocumentStatusProcessed.String(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.UpdateSubmissionStatus(context.Background(), "sub-1", "completed"); err != nil {
		t.Fatalf("UpdateSubmissionStatus() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubmitAssignmentDefaultsProjectType(t *testing.T) {
	storage := &fakeStorage{}
	svc, mock, cleanup := newTestService(t, storage)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			models.ProjectTypeDefault,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req := validRequest()
	req.ProjectType = ""

	if _, err := svc.SubmitAssignment(context.Background(), req); err != nil {
		t.Fatalf("SubmitAssignment() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
