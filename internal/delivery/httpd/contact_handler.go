package httpd

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/assignmate/submission-service/internal/models"
)

func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode contact form")
		writeError(w, http.StatusInternalServerError, "Failed to process your request", "")
		return
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" {
		writeError(w, http.StatusBadRequest,
			"Name, email, and phone number are required", "")
		return
	}

	// Сохранение best-effort: ответ не зависит от успеха записи в БД
	response := h.contactService.SubmitContact(r.Context(), &req)

	writeSuccess(w, response)
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 20)

	response, err := h.contactService.ListContacts(r.Context(), page, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list contacts")
		writeError(w, http.StatusInternalServerError, "Failed to list contacts", "")
		return
	}

	writeSuccess(w, response)
}
