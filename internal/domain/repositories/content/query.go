package content

import (
	"fmt"

	models "pagetree/internal/domain/models/content"
)

// FilterOperator represents a comparison a repository must support
type FilterOperator int

// FilterOperator values.
const (
	OpEqual FilterOperator = iota
	OpIn
	OpIsNull
	OpIsNotNull
	OpGreaterThanOrEqual
	OpLessThanOrEqual
)

// String returns the SQL representation of the operator.
func (o FilterOperator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpIn:
		return "IN"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpGreaterThanOrEqual:
		return ">="
	case OpLessThanOrEqual:
		return "<="
	default:
		return "="
	}
}

// Filter is a single field predicate. On a relation field the value is
// compared with the numeric id of the related record.
type Filter struct {
	Field string
	Op    FilterOperator
	Value any
}

// PopulateMode controls how much of a related record is loaded
type PopulateMode int

const (
	// PopulateShallow loads only the related id
	PopulateShallow PopulateMode = iota
	// PopulateFull loads id and documentId of the related record
	PopulateFull
)

// Sort orders results by one field. Records without a value sort last in
// either direction.
type Sort struct {
	Field string
	Desc  bool
}

// Query describes a flat repository lookup
type Query struct {
	Filters      []Filter
	Populate     string // relation field to populate, empty for none
	PopulateMode PopulateMode
	Sort         *Sort
	Limit        int      // 0 = unbounded
	Fields       []string // attribute projection, nil = all
}

// Where appends a filter and returns the query for chaining
func (q Query) Where(field string, op FilterOperator, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Published restricts the query to records with a publication timestamp
func (q Query) Published() Query {
	return q.Where(models.FieldPublishedAt, OpIsNotNull, nil)
}

// WithParent populates the given relation field
func (q Query) WithParent(field string, mode PopulateMode) Query {
	q.Populate = field
	q.PopulateMode = mode
	return q
}

// OrderBy sets the sort
func (q Query) OrderBy(field string, desc bool) Query {
	q.Sort = &Sort{Field: field, Desc: desc}
	return q
}

// BySlug builds a query matching a slug
func BySlug(slug string) Query {
	return Query{}.Where(models.FieldSlug, OpEqual, slug)
}

// ByReference builds a query matching the record a reference points at,
// using the document id when the reference carries one. Among the versions
// of a document the most recently published row comes first and drafts last.
func ByReference(ref *models.Reference) Query {
	if ref.DocumentID != "" {
		return Query{}.Where(models.FieldDocumentID, OpEqual, ref.DocumentID).OrderBy(models.FieldPublishedAt, true)
	}
	return Query{}.Where(models.FieldID, OpEqual, ref.ID)
}

// Validate checks operator/value combinations
func (f Filter) Validate() error {
	switch f.Op {
	case OpIsNull, OpIsNotNull:
		return nil
	case OpIn:
		if _, ok := f.Value.([]any); !ok {
			return fmt.Errorf("filter %s: IN requires []any, got %T", f.Field, f.Value)
		}
	default:
		if f.Value == nil {
			return fmt.Errorf("filter %s %s: value required", f.Field, f.Op)
		}
	}
	return nil
}
