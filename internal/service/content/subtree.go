package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"

	"golang.org/x/sync/errgroup"
)

// layoutField is projected into subtree nodes when the kind declares it
const layoutField = "layout"

// walkNode holds a full record during the walk; projection happens after
type walkNode struct {
	rec      models.Record
	children []*walkNode
}

// subtreeWalk is the state of one Subtree call
type subtreeWalk struct {
	svc      *treeService
	h        *hierarchy
	maxDepth int // requested bound, 0 = unbounded

	mu      sync.Mutex
	visited map[int64]bool
	nodes   int
}

// Subtree expands published descendants of slug. The root itself may be a
// draft. Siblings are expanded concurrently; results match a sequential walk
// because each node only depends on its own document.
func (s *treeService) Subtree(ctx context.Context, req *svc.SubtreeRequest) (root *models.SubtreeNode, err error) {
	start := time.Now()
	defer func() { observe("subtree", start, err) }()

	if err := validateSubtreeRequest(req, s.opts.MaxDepth); err != nil {
		return nil, err
	}

	h, err := s.hierarchyFor(req.Kind)
	if err != nil {
		return nil, err
	}

	rec, err := s.records.FindOne(ctx, h.ct, repo.BySlug(req.Slug))
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", h.ct.Kind, req.Slug, err)
	}

	w := &subtreeWalk{
		svc:      s,
		h:        h,
		maxDepth: req.MaxDepth,
		visited:  map[int64]bool{rec.ID: true},
		nodes:    1,
	}
	tree := &walkNode{rec: *rec}
	if err := w.expand(ctx, tree, 0); err != nil {
		return nil, err
	}

	treeSize.WithLabelValues("subtree").Observe(float64(w.nodes))
	return w.project(tree), nil
}

// expand fills n.children. depth is n's own depth, the root being 0.
func (w *subtreeWalk) expand(ctx context.Context, n *walkNode, depth int) error {
	if w.maxDepth > 0 && depth >= w.maxDepth {
		return nil
	}

	children, err := childrenOf(ctx, w.svc.records, w.h, &n.rec)
	if err != nil {
		w.svc.logger.Error("failed to fetch children",
			"content_type", w.h.ct.UID,
			"parent_field", w.h.parentField,
			"record_id", n.rec.ID,
			"error", err,
		)
		return fmt.Errorf("fetch children of %s %d: %w", w.h.ct.Kind, n.rec.ID, err)
	}
	if len(children) == 0 {
		return nil
	}

	// Only reachable in unbounded mode: a bounded request is validated
	// against the same cap.
	if depth >= w.svc.opts.MaxDepth {
		return &domain.HierarchyError{
			Message:     fmt.Sprintf("subtree exceeds %d levels", w.svc.opts.MaxDepth),
			ContentType: w.h.ct.UID,
			DocumentID:  n.rec.DocumentID,
			Depth:       depth,
		}
	}

	w.svc.order.sortRecords(children, w.h.labelField)

	if err := w.claim(children); err != nil {
		return err
	}

	n.children = make([]*walkNode, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.svc.opts.Concurrency)
	for i := range children {
		child := &walkNode{rec: children[i]}
		n.children[i] = child
		g.Go(func() error {
			return w.expand(gctx, child, depth+1)
		})
	}
	return g.Wait()
}

// claim marks children as visited. Each record has a single parent, so
// meeting one twice means the parent links loop back.
func (w *subtreeWalk) claim(children []models.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range children {
		if w.visited[children[i].ID] {
			return &domain.HierarchyError{
				Message:     fmt.Sprintf("parent cycle at %s %s", w.h.ct.Kind, children[i].Key()),
				ContentType: w.h.ct.UID,
				DocumentID:  children[i].DocumentID,
			}
		}
		w.visited[children[i].ID] = true
	}
	w.nodes += len(children)
	return nil
}

// project reduces the walked tree to the navigation shape
func (w *subtreeWalk) project(n *walkNode) *models.SubtreeNode {
	out := &models.SubtreeNode{
		ID:         n.rec.ID,
		DocumentID: n.rec.DocumentID,
		Slug:       n.rec.Slug,
		Layout:     n.rec.StringAttr(layoutField),
		Title:      n.rec.Label(w.h.labelField),
		Children:   make([]*models.SubtreeNode, 0, len(n.children)),
	}
	for _, c := range n.children {
		out.Children = append(out.Children, w.project(c))
	}
	return out
}
