package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetAll(ctx context.Context, limit, offset int) ([]models.Contact, int, error)
}

type contactRepository struct {
	*PostgresRepository
}

func NewContactRepository(db *sql.DB, logger zerolog.Logger) ContactRepository {
	return &contactRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, phone, message, project_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Message,
		contact.ProjectType,
		contact.CreatedAt,
	)

	return err
}

func (r *contactRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Contact, int, error) {
	countQuery := `SELECT COUNT(*) FROM contacts`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, email, phone, message, project_type, created_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var contact models.Contact
		err := rows.Scan(
			&contact.ID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.Message,
			&contact.ProjectType,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, contact)
	}

	return contacts, total, nil
}
