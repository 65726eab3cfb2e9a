package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	adminSubjectKey contextKey = "adminSubject"
)

// WithAdminSubject adds the verified token subject to the request context
func WithAdminSubject(r *http.Request, subject string) *http.Request {
	ctx := context.WithValue(r.Context(), adminSubjectKey, subject)
	return r.WithContext(ctx)
}

// GetAdminSubject retrieves the admin subject, empty when the request was not authenticated
func GetAdminSubject(r *http.Request) string {
	subject, _ := r.Context().Value(adminSubjectKey).(string)
	return subject
}
