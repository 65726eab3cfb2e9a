package content

import (
	"context"

	models "pagetree/internal/domain/models/content"
	"pagetree/internal/schema"
)

// RecordRepository is the document store the tree engine reads from. It only
// offers flat queries; every hierarchy walk is built on top of it.
type RecordRepository interface {
	// FindOne returns the first record matching q, or domain.ErrNotFound
	FindOne(ctx context.Context, ct *schema.ContentType, q Query) (*models.Record, error)

	// FindMany returns every record matching q
	FindMany(ctx context.Context, ct *schema.ContentType, q Query) ([]models.Record, error)

	// Create stores a new record, assigning ID and DocumentID when empty
	Create(ctx context.Context, ct *schema.ContentType, rec *models.Record) error

	// Unpublish clears the publication timestamp of every stored version of
	// a document and returns how many versions were touched
	Unpublish(ctx context.Context, ct *schema.ContentType, documentID string) (int, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
