package httpd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// GetDocumentURL выдает временную ссылку на скачивание сохраненного файла.
func (h *Handler) GetDocumentURL(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "Document ID is required", "")
		return
	}

	document, err := h.documentRepo.GetByID(r.Context(), documentID)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to get document")
		writeError(w, http.StatusInternalServerError, "Failed to get document", "")
		return
	}

	if document == nil {
		writeError(w, http.StatusNotFound, "Document not found", "")
		return
	}

	url, err := h.storageRepo.PresignedURL(r.Context(), document.ObjectKey, 15*time.Minute)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to generate download URL")
		writeError(w, http.StatusInternalServerError, "Failed to generate download URL", "")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"document_id": document.ID,
		"filename":    document.Filename,
		"url":         url,
		"expires_in":  int((15 * time.Minute).Seconds()),
	})
}
