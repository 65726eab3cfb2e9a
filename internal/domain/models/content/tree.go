package content

// TreeNode is a record placed in a forest
type TreeNode struct {
	ID          int64       `json:"id"`
	DocumentID  string      `json:"documentId"`
	Label       string      `json:"label"`
	Parent      *string     `json:"parent"` // resolved key, nil for roots
	Children    []*TreeNode `json:"children"`
	HasChildren *bool       `json:"hasChildren,omitempty"` // lazy mode only
}

// SubtreeNode is the reduced projection returned for descendant subtrees
type SubtreeNode struct {
	ID         int64          `json:"id"`
	DocumentID string         `json:"documentId"`
	Slug       string         `json:"slug"`
	Layout     string         `json:"layout,omitempty"`
	Title      string         `json:"title"`
	Children   []*SubtreeNode `json:"children"`
}

// UnpublishResult reports how many stored versions of a document were unpublished
type UnpublishResult struct {
	DocumentID string `json:"documentId"`
	Entries    int    `json:"entries"`
}

// HierarchyReport lists integrity problems found in one content kind
type HierarchyReport struct {
	ContentType string `json:"contentType"`
	ParentField string `json:"parentField"`
	Records     int    `json:"records"`
	Roots       int    `json:"roots"`
	// Dangling lists records whose parent does not exist
	Dangling []string `json:"dangling"`
	// DraftParents lists published records under a draft parent
	DraftParents []string `json:"draftParents"`
	// Cycles lists each cycle once, as document ids
	Cycles [][]string `json:"cycles"`
}

// Healthy reports whether no problem was found
func (r *HierarchyReport) Healthy() bool {
	return len(r.Dangling) == 0 && len(r.DraftParents) == 0 && len(r.Cycles) == 0
}
