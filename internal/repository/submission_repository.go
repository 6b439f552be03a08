package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetAll(ctx context.Context, limit, offset int, status string) ([]models.Submission, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Exists(ctx context.Context, id string) (bool, error)
	BeginTx(ctx context.Context) (*sql.Tx, error)
	Ping(ctx context.Context) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

// Create выполняется внутри переданной транзакции: заявка и ее документ
// должны фиксироваться вместе.
func (r *submissionRepository) Create(ctx context.Context, tx *sql.Tx, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (
			id, name, email, phone, project_type, file_name, file_size,
			file_type, file_url, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := tx.ExecContext(ctx, query,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Phone,
		submission.ProjectType,
		submission.FileName,
		submission.FileSize,
		submission.FileType,
		submission.FileURL,
		submission.Status,
		submission.CreatedAt,
		submission.UpdatedAt,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT
			id, name, email, phone, project_type, file_name, file_size,
			file_type, file_url, status, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.Name,
		&submission.Email,
		&submission.Phone,
		&submission.ProjectType,
		&submission.FileName,
		&submission.FileSize,
		&submission.FileType,
		&submission.FileURL,
		&submission.Status,
		&submission.CreatedAt,
		&submission.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetAll(ctx context.Context, limit, offset int, status string) ([]models.Submission, int, error) {
	countQuery := `SELECT COUNT(*) FROM submissions`
	var countArgs []interface{}

	if status != "" {
		countQuery += ` WHERE status = $1`
		countArgs = append(countArgs, status)
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			id, name, email, phone, project_type, file_name, file_size,
			file_type, file_url, status, created_at, updated_at
		FROM submissions
	`

	var queryArgs []interface{}
	argCount := 1

	if status != "" {
		query += ` WHERE status = $1`
		queryArgs = append(queryArgs, status)
		argCount++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + fmt.Sprint(argCount) + ` OFFSET $` + fmt.Sprint(argCount+1)
	queryArgs = append(queryArgs, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Phone,
			&submission.ProjectType,
			&submission.FileName,
			&submission.FileSize,
			&submission.FileType,
			&submission.FileURL,
			&submission.Status,
			&submission.CreatedAt,
			&submission.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, submission)
	}

	return submissions, total, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE submissions
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *submissionRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM submissions WHERE id = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}
