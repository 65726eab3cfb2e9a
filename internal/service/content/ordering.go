package content

import (
	"sort"

	models "pagetree/internal/domain/models/content"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// labelOrder sorts sibling lists by label using locale collation. Ties fall
// back to the numeric id so output is stable across runs.
type labelOrder struct {
	tag language.Tag
}

func newLabelOrder(locale string) labelOrder {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return labelOrder{tag: tag}
}

// collator returns a fresh collator; collate.Collator is not safe for
// concurrent use and subtree siblings are sorted from several goroutines.
func (o labelOrder) collator() *collate.Collator {
	return collate.New(o.tag)
}

func (o labelOrder) less(c *collate.Collator, a, b string, idA, idB int64) bool {
	if cmp := c.CompareString(a, b); cmp != 0 {
		return cmp < 0
	}
	return idA < idB
}

// sortRecords orders records by their label in labelField
func (o labelOrder) sortRecords(recs []models.Record, labelField string) {
	c := o.collator()
	labels := make(map[int64]string, len(recs))
	for i := range recs {
		labels[recs[i].ID] = recs[i].Label(labelField)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return o.less(c, labels[recs[i].ID], labels[recs[j].ID], recs[i].ID, recs[j].ID)
	})
}

// sortNodes orders one sibling list of tree nodes
func (o labelOrder) sortNodes(nodes []*models.TreeNode) {
	c := o.collator()
	sort.SliceStable(nodes, func(i, j int) bool {
		return o.less(c, nodes[i].Label, nodes[j].Label, nodes[i].ID, nodes[j].ID)
	})
}

// sortForest sorts every sibling list below roots, roots included. The walk
// is iterative so a deep forest cannot exhaust the stack.
func (o labelOrder) sortForest(roots []*models.TreeNode) {
	o.sortNodes(roots)
	stack := append([]*models.TreeNode(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		o.sortNodes(n.Children)
		stack = append(stack, n.Children...)
	}
}
