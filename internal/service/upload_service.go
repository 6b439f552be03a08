package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
	"github.com/assignmate/submission-service/internal/repository"
	"github.com/assignmate/submission-service/internal/service/integration"
	"github.com/assignmate/submission-service/pkg/validate"
)

type UploadService interface {
	SubmitAssignment(ctx context.Context, req *models.SubmissionRequest) (*models.UploadResponse, error)
	GetSubmission(ctx context.Context, id string) (*models.SubmissionWithDocument, error)
	ListSubmissions(ctx context.Context, page, limit int, status string) (*models.SubmissionListResponse, error)
	UpdateSubmissionStatus(ctx context.Context, id, status string) error
}

type uploadService struct {
	submissionRepo repository.SubmissionRepository
	documentRepo   repository.DocumentRepository
	storageRepo    repository.StorageRepository
	publisher      integration.EventPublisher
	logger         zerolog.Logger
}

func NewUploadService(
	submissionRepo repository.SubmissionRepository,
	documentRepo repository.DocumentRepository,
	storageRepo repository.StorageRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		submissionRepo: submissionRepo,
		documentRepo:   documentRepo,
		storageRepo:    storageRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *uploadService) SubmitAssignment(ctx context.Context, req *models.SubmissionRequest) (*models.UploadResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)

	// Формат полей проверяем по одному, первый отказ завершает запрос
	if !validate.Email(email) {
		return nil, &ValidationError{Message: "Invalid email format"}
	}
	if !validate.Phone(phone) {
		return nil, &ValidationError{Message: "Invalid phone number format"}
	}
	if !validate.Name(name) {
		return nil, &ValidationError{Message: "Name must be at least 2 characters long"}
	}

	// Невалидный файл не должен дойти до объектного хранилища
	if err := validate.File(req.FileName, req.FileType, req.FileSize); err != nil {
		return nil, &ValidationError{
			Message: err.Error(),
			Details: fmt.Sprintf("received type %q, size %d bytes; allowed formats: %s",
				req.FileType, req.FileSize, validate.AllowedTypesHint()),
		}
	}

	projectType := strings.TrimSpace(req.ProjectType)
	if projectType == "" {
		projectType = models.ProjectTypeDefault
	}

	objectKey := s.generateObjectKey(req.FileName)

	object, err := s.storageRepo.Upload(ctx, objectKey, req.FileBytes, req.FileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUpload, err)
	}

	submission, document, err := s.persistSubmission(ctx, req, name, email, phone, projectType, object)
	if err != nil {
		// Объект в хранилище остается: чистку осиротевших загрузок
		// выполняет внешний процесс.
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.publishReceived(ctx, submission, document)

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("document_id", document.ID).
		Str("project_type", submission.ProjectType).
		Str("file_name", submission.FileName).
		Int64("file_size", submission.FileSize).
		Msg("Submission accepted")

	return &models.UploadResponse{
		Assignment: models.SubmissionInfo{
			ID:     submission.ID,
			Name:   submission.Name,
			Email:  submission.Email,
			Status: submission.Status,
		},
		Document: models.DocumentInfo{
			ID:       document.ID,
			URL:      document.URL,
			Filename: document.Filename,
		},
	}, nil
}

// persistSubmission создает заявку и документ в одной транзакции.
// Частичная запись (заявка без документа) не должна быть наблюдаема.
func (s *uploadService) persistSubmission(
	ctx context.Context,
	req *models.SubmissionRequest,
	name, email, phone, projectType string,
	object *repository.StoredObject,
) (*models.Submission, *models.Document, error) {
	tx, err := s.submissionRepo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now()

	submission := &models.Submission{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		Phone:       phone,
		ProjectType: projectType,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		FileType:    req.FileType,
		FileURL:     object.URL,
		Status:      models.SubmissionStatusPending.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.submissionRepo.Create(ctx, tx, submission); err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("failed to create submission: %w", err)
	}

	document := &models.Document{
		ID:           uuid.New().String(),
		URL:          object.URL,
		Filename:     req.FileName,
		FileSize:     req.FileSize,
		FileType:     req.FileType,
		ObjectKey:    object.Key,
		Status:       models.DocumentStatusPending.String(),
		SubmissionID: submission.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.documentRepo.Create(ctx, tx, document); err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("failed to create document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return submission, document, nil
}

func (s *uploadService) publishReceived(ctx context.Context, submission *models.Submission, document *models.Document) {
	if s.publisher == nil {
		return
	}

	event := &models.SubmissionReceivedEvent{
		SubmissionID: submission.ID,
		DocumentID:   document.ID,
		ProjectType:  submission.ProjectType,
		FileName:     submission.FileName,
		Timestamp:    time.Now().Unix(),
	}

	// Best-effort: заявка уже зафиксирована, отказ брокера не откатывает ее
	if err := s.publisher.PublishSubmissionReceived(ctx, event); err != nil {
		s.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Msg("Failed to publish submission event")
	}
}

func (s *uploadService) GetSubmission(ctx context.Context, id string) (*models.SubmissionWithDocument, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, nil
	}

	document, err := s.documentRepo.GetBySubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &models.SubmissionWithDocument{
		Submission: *submission,
		Document:   document,
	}, nil
}

func (s *uploadService) ListSubmissions(ctx context.Context, page, limit int, status string) (*models.SubmissionListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	submissions, total, err := s.submissionRepo.GetAll(ctx, limit, (page-1)*limit, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return &models.SubmissionListResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		Limit:       limit,
	}, nil
}

// UpdateSubmissionStatus переводит заявку в новый статус. Заявка,
// переведенная в completed, помечает свой документ обработанным.
func (s *uploadService) UpdateSubmissionStatus(ctx context.Context, id, status string) error {
	if !models.ValidSubmissionStatus(status) {
		return &ValidationError{
			Message: "Invalid status value",
			Details: "allowed statuses: pending, in-progress, completed, cancelled",
		}
	}

	exists, err := s.submissionRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check submission: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.submissionRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	if status == models.SubmissionStatusCompleted.String() {
		document, err := s.documentRepo.GetBySubmission(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		if document != nil {
			if err := s.documentRepo.UpdateStatus(ctx, document.ID, models.DocumentStatusProcessed.String()); err != nil {
				return fmt.Errorf("failed to update document status: %w", err)
			}
		}
	}

	s.logger.Info().
		Str("submission_id", id).
		Str("status", status).
		Msg("Submission status updated")

	return nil
}

func (s *uploadService) generateObjectKey(originalName string) string {
	ext := filepath.Ext(originalName)
	name := strings.TrimSuffix(filepath.Base(originalName), ext)

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "..", "")

	now := time.Now()
	return fmt.Sprintf("assignments/%d/%02d/%02d/%s_%s%s",
		now.Year(), now.Month(), now.Day(), uuid.New().String()[:8], name, ext)
}
