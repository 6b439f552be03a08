package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/models"
	"github.com/assignmate/submission-service/internal/repository"
)

type ContactService interface {
	SubmitContact(ctx context.Context, req *models.ContactRequest) *models.ContactResponse
	ListContacts(ctx context.Context, page, limit int) (*models.ContactListResponse, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	logger      zerolog.Logger
}

func NewContactService(contactRepo repository.ContactRepository, logger zerolog.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		logger:      logger,
	}
}

// SubmitContact сохраняет обращение best-effort: отказ БД логируется,
// но пользователь все равно получает подтверждение.
func (s *contactService) SubmitContact(ctx context.Context, req *models.ContactRequest) *models.ContactResponse {
	contact := &models.Contact{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Message:     strings.TrimSpace(req.Message),
		ProjectType: strings.TrimSpace(req.ProjectType),
		CreatedAt:   time.Now(),
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		s.logger.Error().Err(err).
			Str("email", contact.Email).
			Msg("Failed to save contact form submission")
	} else {
		s.logger.Info().
			Str("contact_id", contact.ID).
			Str("email", contact.Email).
			Msg("Contact form submission saved")
	}

	return &models.ContactResponse{
		Message: "Thank you for your submission! We will contact you shortly.",
	}
}

func (s *contactService) ListContacts(ctx context.Context, page, limit int) (*models.ContactListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	contacts, total, err := s.contactRepo.GetAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return &models.ContactListResponse{
		Contacts: contacts,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}
