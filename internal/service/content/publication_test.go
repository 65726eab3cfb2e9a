package content

import (
	"context"
	"testing"

	"pagetree/internal/domain"
	"pagetree/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpublish(t *testing.T) {
	f := newFixture(t, pagesFixture)
	pub := NewPublicationService(f.registry, f.store, f.logger)
	tree := f.tree()
	ctx := context.Background()

	result, err := pub.Unpublish(ctx, "pagina", "doc-about")
	require.NoError(t, err)
	assert.Equal(t, "doc-about", result.DocumentID)
	assert.Equal(t, 1, result.Entries)

	children, err := tree.Children(ctx, "pagina", "home")
	require.NoError(t, err)
	assert.Equal(t, []string{"agenda", "contatti"}, slugs(children))

	// the ancestor chain ignores publication state
	chain, err := tree.AncestorChain(ctx, "pagina", "team")
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "chi-siamo", "team"}, slugs(chain))
}

func TestUnpublish_Errors(t *testing.T) {
	f := newFixture(t, pagesFixture)
	f.registry.Register(&schema.ContentType{UID: "api::menu.menu", Kind: "menu", Table: "menu"})
	pub := NewPublicationService(f.registry, f.store, f.logger)
	ctx := context.Background()

	tests := []struct {
		name, kind, documentID string
		want                   error
	}{
		{"unknown kind", "ghost", "doc-home", domain.ErrConfiguration},
		{"kind without drafts", "menu", "doc-home", domain.ErrValidation},
		{"unknown document", "pagina", "doc-nope", domain.ErrNotFound},
		{"empty document id", "pagina", "", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pub.Unpublish(ctx, tt.kind, tt.documentID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
