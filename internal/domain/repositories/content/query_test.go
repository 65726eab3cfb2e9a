package content

import (
	"testing"

	models "pagetree/internal/domain/models/content"

	"github.com/stretchr/testify/assert"
)

func TestByReference(t *testing.T) {
	tests := []struct {
		name     string
		ref      *models.Reference
		wantFilt Filter
		wantSort *Sort
	}{
		{
			name:     "document id prefers the published version",
			ref:      &models.Reference{ID: 10, DocumentID: "doc-sez"},
			wantFilt: Filter{Field: models.FieldDocumentID, Op: OpEqual, Value: "doc-sez"},
			wantSort: &Sort{Field: models.FieldPublishedAt, Desc: true},
		},
		{
			name:     "bare id",
			ref:      &models.Reference{ID: 10},
			wantFilt: Filter{Field: models.FieldID, Op: OpEqual, Value: int64(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ByReference(tt.ref)
			assert.Equal(t, []Filter{tt.wantFilt}, q.Filters)
			assert.Equal(t, tt.wantSort, q.Sort)
		})
	}
}
