package content

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Reference points at another record of the same kind. Depending on how the
// relation was populated it carries the numeric id, the document id, or both.
type Reference struct {
	ID         int64  `json:"id,omitempty"`
	DocumentID string `json:"documentId,omitempty"`
}

// IsZero reports whether the reference names nothing
func (r *Reference) IsZero() bool {
	return r == nil || (r.ID == 0 && r.DocumentID == "")
}

// ParentKey returns the key used to look up the referenced record: the
// document id when known, else the numeric id. Empty means root.
func ParentKey(ref *Reference) string {
	if ref.IsZero() {
		return ""
	}
	if ref.DocumentID != "" {
		return ref.DocumentID
	}
	return strconv.FormatInt(ref.ID, 10)
}

// IDKey is the map key under which a numeric id is indexed
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ReferenceFrom normalizes a raw relation value as it arrives from a decoded
// payload: nil, a bare numeric id, a bare document id string, or an embedded
// object carrying id and/or documentId. Anything else yields nil (root).
func ReferenceFrom(raw any) *Reference {
	switch v := raw.(type) {
	case nil:
		return nil
	case *Reference:
		if v.IsZero() {
			return nil
		}
		return v
	case Reference:
		return ReferenceFrom(&v)
	case int:
		return idReference(int64(v))
	case int64:
		return idReference(v)
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		return idReference(int64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return idReference(n)
		}
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return idReference(n)
		}
		return &Reference{DocumentID: s}
	case map[string]any:
		ref := &Reference{}
		if id := ReferenceFrom(v["id"]); id != nil {
			ref.ID = id.ID
		}
		if doc, ok := v["documentId"].(string); ok {
			ref.DocumentID = strings.TrimSpace(doc)
		}
		if ref.IsZero() {
			return nil
		}
		return ref
	}
	return nil
}

func idReference(id int64) *Reference {
	if id <= 0 {
		return nil
	}
	return &Reference{ID: id}
}
