// Package fixtures loads YAML records into any record repository. It feeds
// the memory store in tests and dev mode and seeds Postgres.
package fixtures

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/schema"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML document keyed by content kind, each holding a
// list of records. Fixed keys (id, documentId, slug, publishedAt) are lifted
// out; every other key becomes an attribute. Parent relations may be written
// as a bare id, a document id or an object with id/documentId.
//
//	pagina:
//	  - id: 1
//	    slug: home
//	    publishedAt: 2024-01-05T10:00:00Z
//	    titolo: Home
//	  - id: 2
//	    slug: chi-siamo
//	    titolo: Chi siamo
//	    pagina: 1
func Load(ctx context.Context, records repo.RecordRepository, registry *schema.Registry, data []byte) (int, error) {
	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse fixtures: %w", err)
	}

	kinds := make([]string, 0, len(doc))
	for kind := range doc {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	loaded := 0
	for _, kind := range kinds {
		ct, ok := registry.Lookup(kind)
		if !ok {
			return loaded, fmt.Errorf("fixtures reference unknown content type %q", kind)
		}
		for i, raw := range doc[kind] {
			rec, err := recordFromFixture(raw)
			if err != nil {
				return loaded, fmt.Errorf("%s[%d]: %w", kind, i, err)
			}
			if err := records.Create(ctx, ct, rec); err != nil {
				return loaded, fmt.Errorf("%s[%d]: %w", kind, i, err)
			}
			loaded++
		}
	}
	return loaded, nil
}

// LoadFile is Load over a file on disk
func LoadFile(ctx context.Context, records repo.RecordRepository, registry *schema.Registry, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read fixtures: %w", err)
	}
	return Load(ctx, records, registry, data)
}

func recordFromFixture(raw map[string]any) (*models.Record, error) {
	rec := &models.Record{Attributes: make(map[string]any)}

	for k, v := range raw {
		switch k {
		case models.FieldID:
			ref := models.ReferenceFrom(v)
			if ref == nil || ref.ID == 0 {
				return nil, fmt.Errorf("invalid id %v", v)
			}
			rec.ID = ref.ID
		case models.FieldDocumentID:
			rec.DocumentID = fmt.Sprint(v)
		case models.FieldSlug:
			rec.Slug = fmt.Sprint(v)
		case models.FieldPublishedAt:
			ts, err := parseTimestamp(v)
			if err != nil {
				return nil, err
			}
			rec.PublishedAt = ts
		default:
			rec.Attributes[k] = v
		}
	}
	return rec, nil
}

func parseTimestamp(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed, nil
			}
		}
	}
	return nil, fmt.Errorf("invalid publishedAt %v", v)
}
