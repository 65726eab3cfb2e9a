package content

import (
	"testing"

	"pagetree/internal/domain"
	"pagetree/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParentField(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		name     string
		kind     string
		explicit string
		want     string
		wantErr  bool
	}{
		{name: "self manyToOne", kind: "pagina", want: "pagina"},
		{name: "self oneToOne", kind: "categoria", want: "genitore"},
		{name: "explicit relation", kind: "pagina", explicit: "pagina", want: "pagina"},
		{name: "explicit attribute", kind: "pagina", explicit: "titolo", wantErr: true},
		{name: "explicit unknown", kind: "pagina", explicit: "padre", wantErr: true},
		{name: "only multi relation", kind: "news", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := registry.Lookup(tt.kind)
			require.True(t, ok)

			got, err := resolveParentField(ct, tt.explicit)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveParentField_ConventionalName(t *testing.T) {
	ct := &schema.ContentType{
		UID:  "api::voce.voce",
		Kind: "voce",
		Fields: []schema.Field{
			{Name: "name", Type: schema.FieldTypeString},
			{Name: "parent", Type: schema.FieldTypeRelation, Relation: schema.RelationManyToOne, Target: "api::menu.menu"},
		},
	}
	got, err := resolveParentField(ct, "")
	require.NoError(t, err)
	assert.Equal(t, "parent", got)
}

func TestResolveLabelField(t *testing.T) {
	registry, err := schema.NewRegistry()
	require.NoError(t, err)

	pagina, _ := registry.Lookup("pagina")
	categoria, _ := registry.Lookup("categoria")
	news, _ := registry.Lookup("news")

	assert.Equal(t, "titolo", resolveLabelField(pagina, ""))
	assert.Equal(t, "layout", resolveLabelField(pagina, "layout"))
	assert.Equal(t, "titolo", resolveLabelField(pagina, "missing"))
	assert.Equal(t, "name", resolveLabelField(categoria, ""))
	assert.Equal(t, "title", resolveLabelField(news, ""))
	assert.Equal(t, "id", resolveLabelField(&schema.ContentType{UID: "api::x.x"}, ""))
}
