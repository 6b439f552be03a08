package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, document *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetBySubmission(ctx context.Context, submissionID string) (*models.Document, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type documentRepository struct {
	*PostgresRepository
}

func NewDocumentRepository(db *sql.DB, logger zerolog.Logger) DocumentRepository {
	return &documentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *documentRepository) Create(ctx context.Context, tx *sql.Tx, document *models.Document) error {
	query := `
		INSERT INTO documents (
			id, url, filename, file_size, file_type, object_key,
			status, submission_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := tx.ExecContext(ctx, query,
		document.ID,
		document.URL,
		document.Filename,
		document.FileSize,
		document.FileType,
		document.ObjectKey,
		document.Status,
		document.SubmissionID,
		document.CreatedAt,
		document.UpdatedAt,
	)

	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT
			id, url, filename, file_size, file_type, object_key,
			status, submission_id, created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *documentRepository) GetBySubmission(ctx context.Context, submissionID string) (*models.Document, error) {
	query := `
		SELECT
			id, url, filename, file_size, file_type, object_key,
			status, submission_id, created_at, updated_at
		FROM documents
		WHERE submission_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, submissionID))
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE documents
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *documentRepository) scanOne(row *sql.Row) (*models.Document, error) {
	document := &models.Document{}
	err := row.Scan(
		&document.ID,
		&document.URL,
		&document.Filename,
		&document.FileSize,
		&document.FileType,
		&document.ObjectKey,
		&document.Status,
		&document.SubmissionID,
		&document.CreatedAt,
		&document.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return document, err
}
