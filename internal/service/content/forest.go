package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/schema"
)

// forestService builds whole-kind forests for the admin tree view
type forestService struct {
	registry *schema.Registry
	records  repo.RecordRepository
	order    labelOrder
	logger   *slog.Logger
}

// NewForestService creates a new forest service
func NewForestService(
	registry *schema.Registry,
	records repo.RecordRepository,
	opts Options,
	logger *slog.Logger,
) svc.ForestService {
	return &forestService{
		registry: registry,
		records:  records,
		order:    newLabelOrder(opts.Locale),
		logger:   logger,
	}
}

// Forest fetches every published record once and links them in memory
func (s *forestService) Forest(ctx context.Context, req *svc.ForestRequest) (roots []*models.TreeNode, err error) {
	start := time.Now()
	op := "forest_eager"
	if req.Lazy {
		op = "forest_lazy"
	}
	defer func() { observe(op, start, err) }()

	if err := validateForestRequest(req); err != nil {
		return nil, err
	}

	h, err := resolveHierarchy(s.registry, req.ContentType, req.ParentField, req.LabelField)
	if err != nil {
		return nil, err
	}

	records, err := s.records.FindMany(ctx, h.ct,
		repo.Query{}.Published().WithParent(h.parentField, repo.PopulateFull).OrderBy(models.FieldID, false))
	if err != nil {
		s.logger.Error("failed to load forest",
			"content_type", h.ct.UID,
			"parent_field", h.parentField,
			"error", err,
		)
		return nil, fmt.Errorf("load %s forest: %w", h.ct.Kind, err)
	}

	f := s.link(h, records)
	treeSize.WithLabelValues(op).Observe(float64(len(records)))

	if req.Lazy {
		roots = make([]*models.TreeNode, 0, len(f.roots))
		for _, r := range f.roots {
			hasChildren := len(r.Children) > 0
			roots = append(roots, &models.TreeNode{
				ID:          r.ID,
				DocumentID:  r.DocumentID,
				Label:       r.Label,
				Children:    []*models.TreeNode{},
				HasChildren: &hasChildren,
			})
		}
		s.order.sortNodes(roots)
		return roots, nil
	}

	s.order.sortForest(f.roots)
	return f.roots, nil
}

// linkedForest is the in-memory result of attaching a snapshot
type linkedForest struct {
	roots []*models.TreeNode
	nodes []*models.TreeNode
}

// link indexes every node under both its id and documentId, then attaches
// each node to the parent its reference resolves to. References that do not
// resolve demote the node to a root. Nodes caught in a parent cycle are
// unreachable from any root and are only logged.
func (s *forestService) link(h *hierarchy, records []models.Record) *linkedForest {
	f := &linkedForest{nodes: make([]*models.TreeNode, len(records))}
	byKey := make(map[string]*models.TreeNode, 2*len(records))

	for i := range records {
		n := &models.TreeNode{
			ID:         records[i].ID,
			DocumentID: records[i].DocumentID,
			Label:      records[i].Label(h.labelField),
			Children:   []*models.TreeNode{},
		}
		f.nodes[i] = n
		byKey[models.IDKey(n.ID)] = n
		if n.DocumentID != "" {
			byKey[n.DocumentID] = n
		}
	}

	for i := range records {
		n := f.nodes[i]
		ref := records[i].Parent
		if ref.IsZero() {
			f.roots = append(f.roots, n)
			continue
		}

		parent := byKey[models.ParentKey(ref)]
		if parent == nil && ref.ID > 0 {
			parent = byKey[models.IDKey(ref.ID)]
		}
		if parent == nil {
			brokenLinks.WithLabelValues("forest").Inc()
			s.logger.Warn("parent reference does not resolve, treating as root",
				"content_type", h.ct.UID,
				"parent_field", h.parentField,
				"record_id", n.ID,
				"parent", models.ParentKey(ref),
			)
			f.roots = append(f.roots, n)
			continue
		}

		key := parent.DocumentID
		if key == "" {
			key = models.IDKey(parent.ID)
		}
		n.Parent = &key
		parent.Children = append(parent.Children, n)
	}

	if unreachable := len(f.nodes) - countReachable(f.roots); unreachable > 0 {
		s.logger.Warn("records caught in a parent cycle are not part of the forest",
			"content_type", h.ct.UID,
			"parent_field", h.parentField,
			"records", unreachable,
		)
	}

	return f
}

func countReachable(roots []*models.TreeNode) int {
	count := 0
	stack := append([]*models.TreeNode(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}

// ForestChildren expands one node for lazy clients. An unknown or
// unpublished parent yields an empty list.
func (s *forestService) ForestChildren(ctx context.Context, req *svc.ForestChildrenRequest) (children []*models.TreeNode, err error) {
	start := time.Now()
	defer func() { observe("forest_children", start, err) }()

	if err := validateForestChildrenRequest(req); err != nil {
		return nil, err
	}

	h, err := resolveHierarchy(s.registry, req.ContentType, req.ParentField, req.LabelField)
	if err != nil {
		return nil, err
	}

	lookup := repo.Query{}.Published()
	if id, convErr := strconv.ParseInt(req.ParentID, 10, 64); convErr == nil {
		lookup = lookup.Where(models.FieldID, repo.OpEqual, id)
	} else {
		lookup = lookup.Where(models.FieldDocumentID, repo.OpEqual, req.ParentID)
	}

	parent, err := s.records.FindOne(ctx, h.ct, lookup)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []*models.TreeNode{}, nil
		}
		return nil, fmt.Errorf("resolve %s parent %q: %w", h.ct.Kind, req.ParentID, err)
	}

	records, err := childrenOf(ctx, s.records, h, parent)
	if err != nil {
		return nil, fmt.Errorf("list %s children of %d: %w", h.ct.Kind, parent.ID, err)
	}
	if len(records) == 0 {
		return []*models.TreeNode{}, nil
	}

	withChildren, err := s.parentsWithChildren(ctx, h, records)
	if err != nil {
		return nil, err
	}

	parentKey := parent.Key()
	children = make([]*models.TreeNode, 0, len(records))
	for i := range records {
		hasChildren := withChildren[records[i].ID]
		children = append(children, &models.TreeNode{
			ID:          records[i].ID,
			DocumentID:  records[i].DocumentID,
			Label:       records[i].Label(h.labelField),
			Parent:      &parentKey,
			Children:    []*models.TreeNode{},
			HasChildren: &hasChildren,
		})
	}

	s.order.sortNodes(children)
	treeSize.WithLabelValues("forest_children").Observe(float64(len(children)))
	return children, nil
}

// parentsWithChildren returns the ids among records that have at least one
// published child. A grandchild may point at any version of its parent, so
// its populated reference is mapped back to the listed record.
func (s *forestService) parentsWithChildren(ctx context.Context, h *hierarchy, records []models.Record) (map[int64]bool, error) {
	owners, err := versionOwners(ctx, s.records, h.ct, records)
	if err != nil {
		return nil, err
	}

	grandchildren, err := s.records.FindMany(ctx, h.ct,
		repo.Query{
			Fields: []string{},
		}.Where(h.parentField, repo.OpIn, ownedIDs(owners)).Published().WithParent(h.parentField, repo.PopulateShallow))
	if err != nil {
		return nil, fmt.Errorf("count %s grandchildren: %w", h.ct.Kind, err)
	}

	found := make(map[int64]bool, len(records))
	for i := range grandchildren {
		ref := grandchildren[i].Parent
		if ref.IsZero() {
			continue
		}
		if owner, ok := owners[ref.ID]; ok {
			found[owner] = true
		}
	}
	return found, nil
}
