package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrConfiguration marks caller/setup mistakes: unknown content kinds,
	// parent or label fields that cannot be resolved against the schema.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrHierarchy is returned when a walk detects a parent cycle or runs
	// past the configured depth cap.
	ErrHierarchy = errors.New("hierarchy limit exceeded")
)

// ConfigurationError carries the content kind and the fields that were
// available when resolution failed, so callers can fix their request.
type ConfigurationError struct {
	Message         string
	ContentType     string
	AvailableFields []string
}

func (e *ConfigurationError) Error() string   { return e.Message }
func (e *ConfigurationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// HierarchyError describes where a traversal gave up.
type HierarchyError struct {
	Message     string
	ContentType string
	DocumentID  string // record at which the walk stopped
	Depth       int
}

func (e *HierarchyError) Error() string   { return e.Message }
func (e *HierarchyError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrHierarchy
func (e *HierarchyError) Is(target error) bool {
	return target == ErrHierarchy
}
