package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pagetree/internal/domain"
	"pagetree/internal/httputil"

	"github.com/go-chi/chi/v5/middleware"
)

// handleError converts domain errors to HTTP responses. Anything unmapped is
// logged with the request context and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var configErr *domain.ConfigurationError
	var hierarchyErr *domain.HierarchyError

	switch {
	case errors.As(err, &configErr):
		extras := map[string]any{"contentType": configErr.ContentType}
		if len(configErr.AvailableFields) > 0 {
			extras["availableFields"] = configErr.AvailableFields
		}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, configErr.Error(), extras)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &hierarchyErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, hierarchyErr.Error(), map[string]any{
			"contentType": hierarchyErr.ContentType,
			"documentId":  hierarchyErr.DocumentID,
		})
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
