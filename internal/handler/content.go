package handler

import (
	"log/slog"
	"net/http"

	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/httputil"
)

// ContentHandler serves the public slug routes of every content kind
type ContentHandler struct {
	treeService    svc.TreeService
	archiveService svc.ArchiveService
	cacheControl   string
	logger         *slog.Logger
}

// NewContentHandler creates a new content handler. cacheControl is sent
// with archive responses; empty disables the header.
func NewContentHandler(
	treeService svc.TreeService,
	archiveService svc.ArchiveService,
	cacheControl string,
	logger *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		treeService:    treeService,
		archiveService: archiveService,
		cacheControl:   cacheControl,
		logger:         logger,
	}
}

// GetTree returns the ancestor chain of a record, root first
// GET /api/{kind}/{slug}/tree
func (h *ContentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	chain, err := h.treeService.AncestorChain(r.Context(), r.PathValue("kind"), r.PathValue("slug"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, chain)
}

// GetChildren returns the published children of a published record
// GET /api/{kind}/{slug}/children
func (h *ContentHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.treeService.Children(r.Context(), r.PathValue("kind"), r.PathValue("slug"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, children)
}

// GetSubtree returns the published descendants of a record
// GET /api/{kind}/{slug}/subtree?maxDepth=
func (h *ContentHandler) GetSubtree(w http.ResponseWriter, r *http.Request) {
	maxDepth, err := httputil.QueryInt(r, "maxDepth", 0)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tree, err := h.treeService.Subtree(r.Context(), &svc.SubtreeRequest{
		Kind:     r.PathValue("kind"),
		Slug:     r.PathValue("slug"),
		MaxDepth: maxDepth,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, tree)
}

// GetArchive returns publication counts per year, month and day
// GET /api/{kind}/archive?from=&to=
func (h *ContentHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	years, err := h.archiveService.Archive(r.Context(), &svc.ArchiveRequest{
		Kind: r.PathValue("kind"),
		From: query.Get("from"),
		To:   query.Get("to"),
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	httputil.RespondData(w, http.StatusOK, years)
}
