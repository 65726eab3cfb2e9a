package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_LoadsEmbeddedSchemas(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	ct, ok := r.Lookup("api::pagina.pagina")
	require.True(t, ok)
	assert.Equal(t, "pagina", ct.Kind)
	assert.Equal(t, "pagine", ct.Table)
	assert.True(t, ct.DraftAndPublish)

	byKind, ok := r.Lookup("pagina")
	require.True(t, ok)
	assert.Same(t, ct, byKind)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestContentType_PreservesFieldOrder(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	ct, _ := r.Lookup("pagina")
	assert.Equal(t, []string{"titolo", "slug", "layout", "contenuto", "pagina"}, ct.FieldNames())

	parent, ok := ct.Field("pagina")
	require.True(t, ok)
	assert.True(t, parent.IsSingleRelation())
	assert.Equal(t, "api::pagina.pagina", parent.Target)
	assert.Equal(t, []string{"pagina"}, ct.SingleRelations())
}

func TestRegistry_LoadDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	custom := `uid: api::menu.menu
fields:
  label:
    type: string
  parent:
    type: relation
    relation: manyToOne
    target: api::menu.menu
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menu.yaml"), []byte(custom), 0o644))

	r, err := NewRegistry()
	require.NoError(t, err)
	require.NoError(t, r.LoadDir(dir))

	ct, ok := r.Lookup("menu")
	require.True(t, ok)
	assert.Equal(t, "menu", ct.Table, "table defaults to the kind")
	assert.False(t, ct.DraftAndPublish)
	assert.Len(t, r.All(), 4)
}

func TestKindFromUID(t *testing.T) {
	tests := []struct {
		uid     string
		want    string
		wantErr bool
	}{
		{uid: "api::pagina.pagina", want: "pagina"},
		{uid: "api::news.news", want: "news"},
		{uid: "plugin::users.user", wantErr: true},
		{uid: "api::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			got, err := KindFromUID(tt.uid)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
