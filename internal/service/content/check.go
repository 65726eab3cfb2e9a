package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/schema"
)

// hierarchyChecker reports integrity problems over a whole kind
type hierarchyChecker struct {
	registry *schema.Registry
	records  repo.RecordRepository
	logger   *slog.Logger
}

// NewHierarchyChecker creates a new hierarchy checker
func NewHierarchyChecker(
	registry *schema.Registry,
	records repo.RecordRepository,
	logger *slog.Logger,
) svc.HierarchyChecker {
	return &hierarchyChecker{
		registry: registry,
		records:  records,
		logger:   logger,
	}
}

// Check loads every record, drafts included, and follows each parent link
// once. Cycles are found with a three-colour walk over the parent pointers.
func (c *hierarchyChecker) Check(ctx context.Context, kind, parentField string) (report *models.HierarchyReport, err error) {
	start := time.Now()
	defer func() { observe("check", start, err) }()

	h, err := resolveHierarchy(c.registry, kind, parentField, "")
	if err != nil {
		return nil, err
	}

	records, err := c.records.FindMany(ctx, h.ct,
		repo.Query{Fields: []string{}}.WithParent(h.parentField, repo.PopulateFull).OrderBy(models.FieldID, false))
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", h.ct.Kind, err)
	}

	report = &models.HierarchyReport{
		ContentType:  h.ct.UID,
		ParentField:  h.parentField,
		Records:      len(records),
		Dangling:     []string{},
		DraftParents: []string{},
		Cycles:       [][]string{},
	}

	byKey := make(map[string]int, 2*len(records))
	for i := range records {
		byKey[models.IDKey(records[i].ID)] = i
		if records[i].DocumentID != "" {
			byKey[records[i].DocumentID] = i
		}
	}

	// parentOf[i] is the index of i's parent, -1 for roots and dangling refs
	parentOf := make([]int, len(records))
	for i := range records {
		parentOf[i] = -1
		ref := records[i].Parent
		if ref.IsZero() {
			report.Roots++
			continue
		}
		p, ok := byKey[models.ParentKey(ref)]
		if !ok && ref.ID > 0 {
			p, ok = byKey[models.IDKey(ref.ID)]
		}
		if !ok {
			report.Dangling = append(report.Dangling, records[i].Key())
			continue
		}
		parentOf[i] = p
		if records[i].IsPublished() && !records[p].IsPublished() {
			report.DraftParents = append(report.DraftParents, records[i].Key())
		}
	}

	const (
		white = iota
		grey
		black
	)
	colour := make([]int, len(records))
	for i := range records {
		if colour[i] != white {
			continue
		}
		var path []int
		n := i
		for n >= 0 && colour[n] == white {
			colour[n] = grey
			path = append(path, n)
			n = parentOf[n]
		}
		if n >= 0 && colour[n] == grey {
			// n is on the current path: the tail from n loops back to it
			at := slices.Index(path, n)
			cycle := make([]string, 0, len(path)-at)
			for _, m := range path[at:] {
				cycle = append(cycle, records[m].Key())
			}
			report.Cycles = append(report.Cycles, cycle)
		}
		for _, m := range path {
			colour[m] = black
		}
	}

	if !report.Healthy() {
		c.logger.Warn("hierarchy problems found",
			"content_type", h.ct.UID,
			"parent_field", h.parentField,
			"dangling", len(report.Dangling),
			"draft_parents", len(report.DraftParents),
			"cycles", len(report.Cycles),
		)
	}

	return report, nil
}
