package httpd

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/assignmate/submission-service/internal/models"
	"github.com/assignmate/submission-service/internal/ratelimit"
	"github.com/assignmate/submission-service/internal/service"
	"github.com/assignmate/submission-service/pkg/validate"
)

// maxRequestBody — потолок тела запроса загрузки: лимит файла плюс запас
// на поля формы и границы multipart.
const maxRequestBody = validate.MaxFileSize + 1<<20

// UploadSubmission — конвейер приема заявки. Шаги проверяются строго по
// порядку, первый отказ завершает запрос.
func (h *Handler) UploadSubmission(w http.ResponseWriter, r *http.Request) {
	// 1. Транспорт: только multipart/form-data
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		writeError(w, http.StatusUnsupportedMediaType,
			"Invalid content type. Please use multipart/form-data.", "")
		return
	}

	// 2. Квота клиента
	clientKey := ratelimit.ClientKey(r)
	if !h.limiter.Allow(clientKey) {
		retryAfter := int(math.Ceil(h.limiter.RetryAfter(clientKey).Seconds()))
		if retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		}
		writeError(w, http.StatusTooManyRequests,
			"Too many requests, please try again later.", "")
		return
	}

	// 3. Доступность БД до разбора формы
	if err := h.submissionRepo.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Database unavailable")
		writeError(w, http.StatusServiceUnavailable,
			"Database connection failed. Please try again later.", "")
		return
	}

	// Не буферизуем тело сверх лимита: слишком большая загрузка
	// обрывается на чтении формы
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := r.ParseMultipartForm(h.maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form data", "")
		return
	}

	// 4. Присутствие обязательных полей — перечисляем все недостающие
	file, fileHeader, fileErr := r.FormFile("file")
	name := r.FormValue("name")
	email := r.FormValue("email")
	phone := r.FormValue("phone")

	var missing []string
	if fileErr != nil {
		missing = append(missing, "file")
	}
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(phone) == "" {
		missing = append(missing, "phone")
	}

	if len(missing) > 0 {
		if file != nil {
			file.Close()
		}
		writeError(w, http.StatusBadRequest, "Missing required fields",
			"Missing fields: "+strings.Join(missing, ", "))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file", "")
		return
	}

	req := &models.SubmissionRequest{
		Name:        name,
		Email:       email,
		Phone:       phone,
		ProjectType: r.FormValue("projectType"),
		FileName:    fileHeader.Filename,
		FileType:    fileHeader.Header.Get("Content-Type"),
		FileSize:    fileHeader.Size,
		FileBytes:   fileBytes,
	}

	// 5-8. Формат полей, файл, хранилище и транзакция — в сервисе
	response, err := h.uploadService.SubmitAssignment(r.Context(), req)
	if err != nil {
		h.handleUploadError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) handleUploadError(w http.ResponseWriter, err error) {
	if ve, ok := service.IsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, ve.Message, ve.Details)
		return
	}

	switch {
	case errors.Is(err, service.ErrStorageUpload):
		h.logger.Error().Err(err).Msg("Storage upload error")
		writeError(w, http.StatusInternalServerError, "File upload failed", err.Error())
	case errors.Is(err, service.ErrPersistence):
		h.logger.Error().Err(err).Msg("Database transaction error")
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err.Error())
	default:
		h.logger.Error().Err(err).Msg("Upload error")
		writeError(w, http.StatusInternalServerError, "Server error", "")
	}
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required", "")
		return
	}

	submission, err := h.uploadService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		h.logger.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to get submission")
		writeError(w, http.StatusInternalServerError, "Failed to get submission", "")
		return
	}

	if submission == nil {
		writeError(w, http.StatusNotFound, "Submission not found", "")
		return
	}

	writeSuccess(w, submission)
}

// UpdateSubmissionStatus — служебная операция для бэк-офиса: перевод
// заявки по жизненному циклу pending -> in-progress -> completed.
func (h *Handler) UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")
	if submissionID == "" {
		writeError(w, http.StatusBadRequest, "Submission ID is required", "")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	err := h.uploadService.UpdateSubmissionStatus(r.Context(), submissionID, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Submission not found", "")
		return
	default:
		if ve, ok := service.IsValidationError(err); ok {
			writeError(w, http.StatusBadRequest, ve.Message, ve.Details)
			return
		}
		h.logger.Error().Err(err).Str("submission_id", submissionID).Msg("Failed to update submission status")
		writeError(w, http.StatusInternalServerError, "Failed to update submission status", "")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"submission_id": submissionID,
		"status":        req.Status,
	})
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)
	status := r.URL.Query().Get("status")

	response, err := h.uploadService.ListSubmissions(r.Context(), page, limit, status)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list submissions")
		writeError(w, http.StatusInternalServerError, "Failed to list submissions", "")
		return
	}

	writeSuccess(w, response)
}
