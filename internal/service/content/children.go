package content

import (
	"context"
	"fmt"
	"time"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
)

// Children lists the published direct children of a published record. A
// draft parent is reported as not found.
func (s *treeService) Children(ctx context.Context, kind, slug string) (children []models.Record, err error) {
	start := time.Now()
	defer func() { observe("children", start, err) }()

	if err := validateSlugRequest(kind, slug); err != nil {
		return nil, err
	}

	h, err := s.hierarchyFor(kind)
	if err != nil {
		return nil, err
	}

	parent, err := s.records.FindOne(ctx, h.ct, repo.BySlug(slug).Published())
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", h.ct.Kind, slug, err)
	}

	children, err = childrenOf(ctx, s.records, h, parent)
	if err != nil {
		s.logger.Error("failed to list children",
			"content_type", h.ct.UID,
			"slug", slug,
			"parent_field", h.parentField,
			"record_id", parent.ID,
			"error", err,
		)
		return nil, fmt.Errorf("list children of %s %q: %w", h.ct.Kind, slug, err)
	}

	s.order.sortRecords(children, h.labelField)
	treeSize.WithLabelValues("children").Observe(float64(len(children)))
	return children, nil
}
