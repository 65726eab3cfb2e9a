package content

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
)

// AncestorChain walks parent links upward from slug. A parent that no longer
// exists ends the walk and the partial chain is returned. A revisited record
// or a chain longer than the depth cap is a HierarchyError. Parents are
// followed by document, so a link to a draft row lands on its published
// version when one exists.
func (s *treeService) AncestorChain(ctx context.Context, kind, slug string) (chain []models.Record, err error) {
	start := time.Now()
	defer func() { observe("ancestor_chain", start, err) }()

	if err := validateSlugRequest(kind, slug); err != nil {
		return nil, err
	}

	h, err := s.hierarchyFor(kind)
	if err != nil {
		return nil, err
	}

	current, err := s.records.FindOne(ctx, h.ct, repo.BySlug(slug).WithParent(h.parentField, repo.PopulateFull))
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", h.ct.Kind, slug, err)
	}

	visited := make(map[int64]bool)
	for {
		if visited[current.ID] {
			return nil, &domain.HierarchyError{
				Message:     fmt.Sprintf("parent cycle at %s %s", h.ct.Kind, current.Key()),
				ContentType: h.ct.UID,
				DocumentID:  current.DocumentID,
				Depth:       len(chain),
			}
		}
		if len(chain) > s.opts.MaxDepth {
			return nil, &domain.HierarchyError{
				Message:     fmt.Sprintf("ancestor chain of %q exceeds %d levels", slug, s.opts.MaxDepth),
				ContentType: h.ct.UID,
				DocumentID:  current.DocumentID,
				Depth:       len(chain),
			}
		}
		visited[current.ID] = true

		parent := current.Parent
		chain = append(chain, current.WithoutParent())
		if parent.IsZero() {
			break
		}

		next, err := s.records.FindOne(ctx, h.ct, repo.ByReference(parent).WithParent(h.parentField, repo.PopulateFull))
		if errors.Is(err, domain.ErrNotFound) {
			brokenLinks.WithLabelValues("ancestor_chain").Inc()
			s.logger.Warn("ancestor chain truncated at missing parent",
				"content_type", h.ct.UID,
				"slug", slug,
				"record_id", current.ID,
				"parent_field", h.parentField,
				"parent", models.ParentKey(parent),
			)
			break
		}
		if err != nil {
			s.logger.Error("failed to fetch ancestor",
				"content_type", h.ct.UID,
				"slug", slug,
				"parent", models.ParentKey(parent),
				"error", err,
			)
			return nil, fmt.Errorf("fetch parent of %s %d: %w", h.ct.Kind, current.ID, err)
		}
		current = next
	}

	slices.Reverse(chain)
	treeSize.WithLabelValues("ancestor_chain").Observe(float64(len(chain)))
	return chain, nil
}
