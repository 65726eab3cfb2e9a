package handler

import (
	"net/http"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Health      *HealthHandler
	Content     *ContentHandler
	Forest      *ForestHandler
	Publication *PublicationHandler
	Metrics     http.Handler
}

// RegisterRoutes mounts public and admin routes on mux. admin wraps every
// route that changes state or exposes drafts' structure.
func RegisterRoutes(mux *http.ServeMux, h Handlers, admin func(http.Handler) http.Handler) {
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}

	mux.HandleFunc("GET /health", h.Health.GetHealth)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Public content API
	mux.HandleFunc("GET /api/{kind}/{slug}/tree", h.Content.GetTree)
	mux.HandleFunc("GET /api/{kind}/{slug}/children", h.Content.GetChildren)
	mux.HandleFunc("GET /api/{kind}/{slug}/subtree", h.Content.GetSubtree)
	mux.HandleFunc("GET /api/{kind}/archive", h.Content.GetArchive)

	// Admin tree view
	mux.Handle("GET /tree-view/tree", admin(http.HandlerFunc(h.Forest.GetForest)))
	mux.Handle("GET /tree-view/tree/children/{parentId}", admin(http.HandlerFunc(h.Forest.GetForestChildren)))
	mux.Handle("POST /api/{kind}/{documentId}/unpublish", admin(http.HandlerFunc(h.Publication.Unpublish)))
}
