package content

import (
	"context"

	models "pagetree/internal/domain/models/content"
)

// TreeService answers slug-based navigation questions for one content kind
type TreeService interface {
	// AncestorChain returns the lineage of a record, root first, ending
	// with the record itself. Publication state is ignored.
	AncestorChain(ctx context.Context, kind, slug string) ([]models.Record, error)

	// Subtree returns the published descendants of a record
	Subtree(ctx context.Context, req *SubtreeRequest) (*models.SubtreeNode, error)

	// Children lists the published direct children of a published record
	Children(ctx context.Context, kind, slug string) ([]models.Record, error)
}

// ForestService builds whole-kind hierarchies for the admin tree view
type ForestService interface {
	// Forest returns every root of the kind. In lazy mode only roots are
	// returned, each flagged with HasChildren.
	Forest(ctx context.Context, req *ForestRequest) ([]*models.TreeNode, error)

	// ForestChildren expands one level below a node for lazy clients
	ForestChildren(ctx context.Context, req *ForestChildrenRequest) ([]*models.TreeNode, error)
}

// ArchiveService aggregates publication dates
type ArchiveService interface {
	Archive(ctx context.Context, req *ArchiveRequest) ([]models.ArchiveYear, error)
}

// PublicationService changes the publication state of documents
type PublicationService interface {
	Unpublish(ctx context.Context, kind, documentID string) (*models.UnpublishResult, error)
}

// HierarchyChecker inspects a kind for broken parent links
type HierarchyChecker interface {
	Check(ctx context.Context, kind, parentField string) (*models.HierarchyReport, error)
}

// SubtreeRequest selects a descendant subtree
type SubtreeRequest struct {
	Kind     string `json:"kind"`
	Slug     string `json:"slug"`
	MaxDepth int    `json:"maxDepth"` // 0 = unbounded
}

// ForestRequest selects a forest. Empty fields are auto-detected.
type ForestRequest struct {
	ContentType string `json:"contentType"` // uid or kind name
	ParentField string `json:"parentField,omitempty"`
	LabelField  string `json:"labelField,omitempty"`
	Lazy        bool   `json:"lazy"`
}

// ForestChildrenRequest selects one level below ParentID (numeric id or documentId)
type ForestChildrenRequest struct {
	ContentType string `json:"contentType"`
	ParentID    string `json:"parentId"`
	ParentField string `json:"parentField,omitempty"`
	LabelField  string `json:"labelField,omitempty"`
}

// ArchiveRequest bounds an archive. From and To accept RFC 3339 or YYYY-MM-DD.
type ArchiveRequest struct {
	Kind string `json:"kind"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}
