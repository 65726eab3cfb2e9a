package content

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/repository/fixtures"
	"pagetree/internal/repository/memory"
	"pagetree/internal/schema"

	"github.com/stretchr/testify/require"
)

// Pages under home, a draft sibling, a dangling reference, and a published
// page below a draft root. Labels mix case to exercise collation.
const pagesFixture = `
pagina:
  - id: 1
    documentId: doc-home
    slug: home
    publishedAt: 2024-01-05T10:00:00Z
    titolo: Home
    layout: landing
  - id: 2
    documentId: doc-about
    slug: chi-siamo
    publishedAt: 2024-01-09T10:00:00Z
    titolo: Chi siamo
    layout: sezione
    pagina: 1
  - id: 3
    documentId: doc-team
    slug: team
    publishedAt: 2024-02-01T08:00:00Z
    titolo: Team
    pagina: doc-about
  - id: 4
    documentId: doc-history
    slug: storia
    publishedAt: 2024-02-03T08:00:00Z
    titolo: Storia
    pagina: {id: 2, documentId: doc-about}
  - id: 5
    documentId: doc-draft
    slug: bozza
    titolo: Bozza
    pagina: 1
  - id: 6
    documentId: doc-contacts
    slug: contatti
    publishedAt: 2024-03-01T08:00:00Z
    titolo: Contatti
    pagina: 1
  - id: 7
    documentId: doc-orphan
    slug: orfana
    publishedAt: 2024-03-02T08:00:00Z
    titolo: Orfana
    pagina: {id: 999}
  - id: 8
    documentId: doc-private
    slug: privata
    titolo: Privata
  - id: 9
    documentId: doc-private-child
    slug: sotto-privata
    publishedAt: 2024-03-03T08:00:00Z
    titolo: Sotto privata
    pagina: 8
  - id: 10
    documentId: doc-agenda
    slug: agenda
    publishedAt: 2024-03-04T08:00:00Z
    titolo: agenda
    pagina: "1"
news:
  - id: 1
    slug: apertura
    publishedAt: 2024-01-05T10:00:00Z
    title: Apertura
  - id: 2
    slug: evento
    publishedAt: 2024-01-09T15:00:00Z
    title: Evento
  - id: 3
    slug: bilancio
    publishedAt: 2024-02-01T08:00:00Z
    title: Bilancio
  - id: 4
    slug: in-lavorazione
    title: In lavorazione
`

// Two categories pointing at each other next to a healthy root
const cycleFixture = `
categoria:
  - id: 1
    documentId: cat-root
    slug: radice
    publishedAt: 2024-01-01
    name: Radice
  - id: 2
    documentId: cat-x
    slug: x
    publishedAt: 2024-01-01
    name: X
    genitore: 3
  - id: 3
    documentId: cat-y
    slug: y
    publishedAt: 2024-01-01
    name: Y
    genitore: 2
`

// A straight chain l0 <- l1 <- l2 <- l3
const chainFixture = `
categoria:
  - {id: 1, slug: l0, publishedAt: 2024-01-01, name: L0}
  - {id: 2, slug: l1, publishedAt: 2024-01-01, name: L1, genitore: 1}
  - {id: 3, slug: l2, publishedAt: 2024-01-01, name: L2, genitore: 2}
  - {id: 4, slug: l3, publishedAt: 2024-01-01, name: L3, genitore: 3}
`

// A published section whose draft row (id 10) is what its child points at
const versionsFixture = `
pagina:
  - {id: 10, documentId: doc-sez, titolo: Sezione bozza}
  - {id: 11, documentId: doc-sez, slug: sezione, publishedAt: 2024-01-02, titolo: Sezione}
  - {id: 12, documentId: doc-inner, slug: interna, publishedAt: 2024-01-03, titolo: Interna, pagina: 10}
  - {id: 13, documentId: doc-leaf, slug: foglia, publishedAt: 2024-01-04, titolo: Foglia, pagina: doc-inner}
  - {id: 14, documentId: doc-side, slug: laterale, publishedAt: 2024-01-05, titolo: Laterale, pagina: 11}
`

type fixture struct {
	registry *schema.Registry
	store    *memory.Store
	opts     Options
	logger   *slog.Logger
}

func newFixture(t *testing.T, data string) *fixture {
	t.Helper()

	registry, err := schema.NewRegistry()
	require.NoError(t, err)

	store := memory.NewStore()
	_, err = fixtures.Load(context.Background(), store, registry, []byte(data))
	require.NoError(t, err)

	return &fixture{
		registry: registry,
		store:    store,
		opts:     Options{MaxDepth: 64, Concurrency: 4, Locale: "it"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// failAfter lets the first n reads through and fails every later one
type failAfter struct {
	repo.RecordRepository
	n     int64
	err   error
	calls atomic.Int64
}

func (r *failAfter) FindOne(ctx context.Context, ct *schema.ContentType, q repo.Query) (*models.Record, error) {
	if r.calls.Add(1) > r.n {
		return nil, r.err
	}
	return r.RecordRepository.FindOne(ctx, ct, q)
}

func (r *failAfter) FindMany(ctx context.Context, ct *schema.ContentType, q repo.Query) ([]models.Record, error) {
	if r.calls.Add(1) > r.n {
		return nil, r.err
	}
	return r.RecordRepository.FindMany(ctx, ct, q)
}

func (f *fixture) tree() *treeService {
	return NewTreeService(f.registry, f.store, f.opts, f.logger).(*treeService)
}

func (f *fixture) forest() *forestService {
	return NewForestService(f.registry, f.store, f.opts, f.logger).(*forestService)
}

func slugs(recs []models.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Slug)
	}
	return out
}
