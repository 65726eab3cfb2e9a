package handler

import (
	"log/slog"
	"net/http"

	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/httputil"
)

// PublicationHandler serves admin publication changes
type PublicationHandler struct {
	publicationService svc.PublicationService
	logger             *slog.Logger
}

// NewPublicationHandler creates a new publication handler
func NewPublicationHandler(publicationService svc.PublicationService, logger *slog.Logger) *PublicationHandler {
	return &PublicationHandler{
		publicationService: publicationService,
		logger:             logger,
	}
}

// Unpublish clears the publication state of a document
// POST /api/{kind}/{documentId}/unpublish
func (h *PublicationHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	result, err := h.publicationService.Unpublish(r.Context(), r.PathValue("kind"), r.PathValue("documentId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("unpublish requested",
		"subject", httputil.GetAdminSubject(r),
		"document_id", result.DocumentID,
	)
	httputil.RespondData(w, http.StatusOK, result)
}
