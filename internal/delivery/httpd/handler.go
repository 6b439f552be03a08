package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/assignmate/submission-service/internal/ratelimit"
	"github.com/assignmate/submission-service/internal/repository"
	"github.com/assignmate/submission-service/internal/service"
)

type Handler struct {
	uploadService  service.UploadService
	contactService service.ContactService
	submissionRepo repository.SubmissionRepository
	documentRepo   repository.DocumentRepository
	storageRepo    repository.StorageRepository
	limiter        *ratelimit.Limiter
	usersProxy     http.Handler
	maxFormMemory  int64
	logger         zerolog.Logger
}

func NewHandler(
	uploadService service.UploadService,
	contactService service.ContactService,
	submissionRepo repository.SubmissionRepository,
	documentRepo repository.DocumentRepository,
	storageRepo repository.StorageRepository,
	limiter *ratelimit.Limiter,
	usersProxy http.Handler,
	maxFormMemory int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		uploadService:  uploadService,
		contactService: contactService,
		submissionRepo: submissionRepo,
		documentRepo:   documentRepo,
		storageRepo:    storageRepo,
		limiter:        limiter,
		usersProxy:     usersProxy,
		maxFormMemory:  maxFormMemory,
		logger:         logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Health check
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)

	router.Route("/api", func(api chi.Router) {
		api.Post("/upload", h.UploadSubmission)
		api.Get("/upload", h.ListSubmissions)
		api.Get("/upload/{submission_id}", h.GetSubmission)
		api.Patch("/upload/{submission_id}/status", h.UpdateSubmissionStatus)

		api.Post("/contact", h.SubmitContact)
		api.Get("/contact", h.ListContacts)

		api.Get("/documents/{document_id}/url", h.GetDocumentURL)

		// Демо-ресурс пользователей проксируется во внешний API
		if h.usersProxy != nil {
			api.Handle("/users", h.usersProxy)
			api.Handle("/users/*", h.usersProxy)
		}
	})
}
