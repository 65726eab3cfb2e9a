package content

import (
	"context"
	"fmt"
	"slices"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/schema"
)

// versionOwners maps every stored row that shares a documentId with one of
// recs to that record's id. A relation may point at the draft or the
// published row of a document, so child lookups match every version.
func versionOwners(ctx context.Context, records repo.RecordRepository, ct *schema.ContentType, recs []models.Record) (map[int64]int64, error) {
	owners := make(map[int64]int64, len(recs))
	byDocument := make(map[string]int64, len(recs))
	documents := make([]any, 0, len(recs))

	for i := range recs {
		owners[recs[i].ID] = recs[i].ID
		doc := recs[i].DocumentID
		if doc == "" {
			continue
		}
		if _, seen := byDocument[doc]; !seen {
			byDocument[doc] = recs[i].ID
			documents = append(documents, doc)
		}
	}
	if len(documents) == 0 {
		return owners, nil
	}

	versions, err := records.FindMany(ctx, ct,
		repo.Query{Fields: []string{}}.Where(models.FieldDocumentID, repo.OpIn, documents))
	if err != nil {
		return nil, fmt.Errorf("list %s versions: %w", ct.Kind, err)
	}
	for i := range versions {
		if _, own := owners[versions[i].ID]; own {
			continue
		}
		if id, ok := byDocument[versions[i].DocumentID]; ok {
			owners[versions[i].ID] = id
		}
	}
	return owners, nil
}

// ownedIDs returns the row ids of owners in ascending order, ready for an IN filter
func ownedIDs(owners map[int64]int64) []any {
	ids := make([]int64, 0, len(owners))
	for id := range owners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// childrenOf lists the published records whose parent is any version of parent
func childrenOf(ctx context.Context, records repo.RecordRepository, h *hierarchy, parent *models.Record) ([]models.Record, error) {
	owners, err := versionOwners(ctx, records, h.ct, []models.Record{*parent})
	if err != nil {
		return nil, err
	}
	return records.FindMany(ctx, h.ct,
		repo.Query{}.Where(h.parentField, repo.OpIn, ownedIDs(owners)).Published())
}
