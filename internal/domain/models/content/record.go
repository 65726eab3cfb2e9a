package content

import (
	"encoding/json"
	"strconv"
	"time"
)

// Fixed field names understood by every repository adapter. Everything else
// is a declared attribute of the content type.
const (
	FieldID          = "id"
	FieldDocumentID  = "documentId"
	FieldSlug        = "slug"
	FieldPublishedAt = "publishedAt"
)

// Record is one content entry of a content kind
type Record struct {
	ID          int64          `json:"id"`
	DocumentID  string         `json:"documentId"`
	Slug        string         `json:"slug,omitempty"`
	PublishedAt *time.Time     `json:"publishedAt"` // nil = draft
	Parent      *Reference     `json:"-"`           // populated relation, see ParentField
	ParentField string         `json:"-"`
	Attributes  map[string]any `json:"-"`
}

// IsPublished reports whether the record has a publication timestamp
func (r *Record) IsPublished() bool {
	return r.PublishedAt != nil
}

// Key is the lookup key other records use to point at this one
func (r *Record) Key() string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	return strconv.FormatInt(r.ID, 10)
}

// Attr returns a declared attribute value
func (r *Record) Attr(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// StringAttr returns a declared attribute as a string, empty if absent or not a string
func (r *Record) StringAttr(name string) string {
	if v, ok := r.Attributes[name].(string); ok {
		return v
	}
	return ""
}

// Label returns the display label from labelField, falling back to "#<id>"
func (r *Record) Label(labelField string) string {
	if labelField == FieldID || labelField == "" {
		return "#" + strconv.FormatInt(r.ID, 10)
	}
	if labelField == FieldSlug && r.Slug != "" {
		return r.Slug
	}
	if s := r.StringAttr(labelField); s != "" {
		return s
	}
	if v, ok := r.Attributes[labelField]; ok && v != nil {
		switch val := v.(type) {
		case int, int64, float64, json.Number:
			return toString(val)
		}
	}
	return "#" + strconv.FormatInt(r.ID, 10)
}

// WithoutParent returns a shallow copy with the parent relation stripped
func (r Record) WithoutParent() Record {
	r.Parent = nil
	r.ParentField = ""
	return r
}

// MarshalJSON flattens attributes next to the fixed fields. A populated
// parent is emitted under its field name.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Attributes)+5)
	for k, v := range r.Attributes {
		m[k] = v
	}

	m[FieldID] = r.ID
	m[FieldDocumentID] = r.DocumentID
	m[FieldPublishedAt] = r.PublishedAt
	if r.Slug != "" {
		m[FieldSlug] = r.Slug
	}
	if r.ParentField != "" {
		m[r.ParentField] = r.Parent
	}

	return json.Marshal(m)
}

func toString(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	return ""
}
