// Package memory implements the record repository over an in-process
// snapshot. It backs the test suite, STORE=memory dev mode and treectl
// --fixtures.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/schema"

	"github.com/google/uuid"
)

// stored keeps relations apart from the record so each query can populate
// them fresh.
type stored struct {
	rec       models.Record
	relations map[string]*models.Reference
}

// Store is an in-memory RecordRepository
type Store struct {
	mu      sync.RWMutex
	kinds   map[string][]*stored // keyed by content type uid
	queries atomic.Int64
	failErr error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{kinds: make(map[string][]*stored)}
}

var _ repo.RecordRepository = (*Store)(nil)

// Queries returns how many FindOne/FindMany calls the store has served
func (s *Store) Queries() int64 {
	return s.queries.Load()
}

// FailWith makes every subsequent read return err (nil restores normal operation)
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Create stores a record. Relation values found in Attributes for declared
// single relations are normalized into references.
func (s *Store) Create(ctx context.Context, ct *schema.ContentType, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.kinds[ct.UID]

	if rec.ID == 0 {
		var maxID int64
		for _, e := range entries {
			maxID = max(maxID, e.rec.ID)
		}
		rec.ID = maxID + 1
	}
	if rec.DocumentID == "" {
		rec.DocumentID = uuid.NewString()
	}

	for _, e := range entries {
		if e.rec.ID == rec.ID {
			return fmt.Errorf("record %d already exists in %s: %w", rec.ID, ct.Kind, domain.ErrValidation)
		}
		if rec.Slug != "" && e.rec.Slug == rec.Slug {
			return fmt.Errorf("slug %q already exists in %s: %w", rec.Slug, ct.Kind, domain.ErrValidation)
		}
	}

	st := &stored{relations: make(map[string]*models.Reference)}
	attrs := make(map[string]any, len(rec.Attributes))
	for k, v := range rec.Attributes {
		if f, ok := ct.Field(k); ok && f.IsSingleRelation() {
			st.relations[k] = models.ReferenceFrom(v)
			continue
		}
		attrs[k] = v
	}
	if rec.ParentField != "" {
		st.relations[rec.ParentField] = models.ReferenceFrom(rec.Parent)
	}

	st.rec = *rec
	st.rec.Attributes = attrs
	st.rec.Parent = nil
	st.rec.ParentField = ""
	s.kinds[ct.UID] = append(entries, st)

	return ctx.Err()
}

// Unpublish clears publishedAt on every entry carrying documentID
func (s *Store) Unpublish(ctx context.Context, ct *schema.ContentType, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := 0
	for _, e := range s.kinds[ct.UID] {
		if e.rec.DocumentID == documentID {
			e.rec.PublishedAt = nil
			touched++
		}
	}
	return touched, ctx.Err()
}

// FindOne returns the first match or domain.ErrNotFound
func (s *Store) FindOne(ctx context.Context, ct *schema.ContentType, q repo.Query) (*models.Record, error) {
	q.Limit = 1
	recs, err := s.FindMany(ctx, ct, q)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s record: %w", ct.Kind, domain.ErrNotFound)
	}
	return &recs[0], nil
}

// FindMany filters, sorts, limits and projects a copy of the snapshot
func (s *Store) FindMany(ctx context.Context, ct *schema.ContentType, q repo.Query) ([]models.Record, error) {
	s.queries.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failErr != nil {
		return nil, s.failErr
	}

	for _, f := range q.Filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}

	entries := s.kinds[ct.UID]
	var matched []*stored
	for _, e := range entries {
		ok, err := s.matches(ct, e, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}

	if q.Sort != nil {
		sortStored(matched, q.Sort)
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]models.Record, 0, len(matched))
	for _, e := range matched {
		out = append(out, s.project(ct, e, q))
	}
	return out, nil
}

func (s *Store) project(ct *schema.ContentType, e *stored, q repo.Query) models.Record {
	rec := e.rec
	attrs := make(map[string]any, len(rec.Attributes))
	for k, v := range rec.Attributes {
		if q.Fields == nil || contains(q.Fields, k) {
			attrs[k] = v
		}
	}
	rec.Attributes = attrs

	if q.Populate != "" {
		rec.ParentField = q.Populate
		if ref := e.relations[q.Populate]; !ref.IsZero() {
			rec.Parent = s.populate(ct, ref, q.PopulateMode)
		}
	}
	return rec
}

// populate mirrors a LEFT JOIN on the relation column: a reference that
// resolves yields the target's ids, a dangling one is returned as stored.
func (s *Store) populate(ct *schema.ContentType, ref *models.Reference, mode repo.PopulateMode) *models.Reference {
	target := s.resolve(ct, ref)
	if target == nil {
		cp := *ref
		return &cp
	}
	if mode == repo.PopulateFull {
		return &models.Reference{ID: target.rec.ID, DocumentID: target.rec.DocumentID}
	}
	return &models.Reference{ID: target.rec.ID}
}

func (s *Store) resolve(ct *schema.ContentType, ref *models.Reference) *stored {
	for _, e := range s.kinds[ct.UID] {
		if ref.DocumentID != "" && e.rec.DocumentID == ref.DocumentID {
			return e
		}
		if ref.DocumentID == "" && e.rec.ID == ref.ID {
			return e
		}
	}
	return nil
}

func (s *Store) matches(ct *schema.ContentType, e *stored, filters []repo.Filter) (bool, error) {
	for _, f := range filters {
		var value any
		present := true

		switch f.Field {
		case models.FieldID:
			value = e.rec.ID
		case models.FieldDocumentID:
			value = e.rec.DocumentID
		case models.FieldSlug:
			value = e.rec.Slug
			present = e.rec.Slug != ""
		case models.FieldPublishedAt:
			if e.rec.PublishedAt != nil {
				value = *e.rec.PublishedAt
			} else {
				present = false
			}
		default:
			field, ok := ct.Field(f.Field)
			if !ok {
				return false, fmt.Errorf("unknown field %q on %s", f.Field, ct.Kind)
			}
			if field.IsSingleRelation() {
				ref := e.relations[f.Field]
				present = !ref.IsZero()
				if present {
					// relation predicates compare the related record's id
					if target := s.resolve(ct, ref); target != nil {
						value = target.rec.ID
					} else {
						value = ref.ID
					}
				}
			} else {
				value, present = e.rec.Attributes[f.Field]
				present = present && value != nil
			}
		}

		if !compare(f, value, present) {
			return false, nil
		}
	}
	return true, nil
}

func compare(f repo.Filter, value any, present bool) bool {
	switch f.Op {
	case repo.OpIsNull:
		return !present
	case repo.OpIsNotNull:
		return present
	}
	if !present {
		return false
	}

	switch f.Op {
	case repo.OpEqual:
		return equalValues(value, f.Value)
	case repo.OpIn:
		for _, candidate := range f.Value.([]any) {
			if equalValues(value, candidate) {
				return true
			}
		}
		return false
	case repo.OpGreaterThanOrEqual:
		return orderValues(value, f.Value) >= 0
	case repo.OpLessThanOrEqual:
		return orderValues(value, f.Value) <= 0
	}
	return false
}

func equalValues(a, b any) bool {
	if ai, ok := asInt(a); ok {
		bi, ok := asInt(b)
		return ok && ai == bi
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func orderValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	return 0, false
}

func sortStored(entries []*stored, by *repo.Sort) {
	key := func(e *stored) any {
		switch by.Field {
		case models.FieldID:
			return e.rec.ID
		case models.FieldDocumentID:
			return e.rec.DocumentID
		case models.FieldSlug:
			return e.rec.Slug
		case models.FieldPublishedAt:
			if e.rec.PublishedAt == nil {
				return nil
			}
			return *e.rec.PublishedAt
		}
		return e.rec.Attributes[by.Field]
	}

	// missing values sort last in either direction, like NULLS LAST
	sort.SliceStable(entries, func(i, j int) bool {
		ki, kj := key(entries[i]), key(entries[j])
		if ki == nil || kj == nil {
			return ki != nil && kj == nil
		}
		c := orderValues(ki, kj)
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
