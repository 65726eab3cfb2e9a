package handler

import (
	"log/slog"
	"net/http"

	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/httputil"
)

// ForestHandler serves the admin tree view
type ForestHandler struct {
	forestService svc.ForestService
	logger        *slog.Logger
}

// NewForestHandler creates a new forest handler
func NewForestHandler(forestService svc.ForestService, logger *slog.Logger) *ForestHandler {
	return &ForestHandler{
		forestService: forestService,
		logger:        logger,
	}
}

// GetForest returns the whole forest, or only its roots when lazy
// GET /tree-view/tree?contentType=&parentField=&labelField=&lazy=
func (h *ForestHandler) GetForest(w http.ResponseWriter, r *http.Request) {
	lazy, err := httputil.QueryBool(r, "lazy")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	roots, err := h.forestService.Forest(r.Context(), &svc.ForestRequest{
		ContentType: query.Get("contentType"),
		ParentField: query.Get("parentField"),
		LabelField:  query.Get("labelField"),
		Lazy:        lazy,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, roots)
}

// GetForestChildren expands one node for lazy clients
// GET /tree-view/tree/children/{parentId}?contentType=&parentField=&labelField=
func (h *ForestHandler) GetForestChildren(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	children, err := h.forestService.ForestChildren(r.Context(), &svc.ForestChildrenRequest{
		ContentType: query.Get("contentType"),
		ParentID:    r.PathValue("parentId"),
		ParentField: query.Get("parentField"),
		LabelField:  query.Get("labelField"),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, children)
}
