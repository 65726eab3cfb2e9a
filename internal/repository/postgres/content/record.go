package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pagetree/internal/domain"
	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/schema"

	"pagetree/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecordRepository implements RecordRepository with one table per
// content kind: fixed columns, one <relation>_id column per single relation
// and a JSONB column for everything else.
type PostgresRecordRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(config *postgres.RepositoryConfig) *PostgresRecordRepository {
	return &PostgresRecordRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var _ repo.RecordRepository = (*PostgresRecordRepository)(nil)

// FindOne returns the first match or domain.ErrNotFound
func (r *PostgresRecordRepository) FindOne(ctx context.Context, ct *schema.ContentType, q repo.Query) (*models.Record, error) {
	q.Limit = 1
	recs, err := r.FindMany(ctx, ct, q)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s record: %w", ct.Kind, domain.ErrNotFound)
	}
	return &recs[0], nil
}

// FindMany runs q as a single SELECT
func (r *PostgresRecordRepository) FindMany(ctx context.Context, ct *schema.ContentType, q repo.Query) ([]models.Record, error) {
	query, args, err := newSelectBuilder(r.tables.For(ct), ct).build(q)
	if err != nil {
		return nil, err
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		if postgres.IsPgUndefinedTableError(err) {
			return nil, fmt.Errorf("table for %s does not exist, run the seed command: %w", ct.UID, err)
		}
		return nil, fmt.Errorf("query %s: %w", ct.Kind, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var (
			rec         models.Record
			attrs       map[string]any
			rawParent   *int64
			parentID    *int64
			parentDoc   *string
			publishedAt *time.Time
		)

		dest := []any{&rec.ID, &rec.DocumentID, &rec.Slug, &publishedAt, &attrs}
		if q.Populate != "" {
			dest = append(dest, &rawParent, &parentID, &parentDoc)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", ct.Kind, err)
		}

		rec.PublishedAt = publishedAt
		rec.Attributes = attrs
		if rec.Attributes == nil {
			rec.Attributes = make(map[string]any)
		}
		if q.Populate != "" {
			rec.ParentField = q.Populate
			rec.Parent = populated(rawParent, parentID, parentDoc, q.PopulateMode)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", ct.Kind, err)
	}

	return records, nil
}

// populated builds the reference for a joined relation. A raw id without a
// joined row is dangling and returned as stored.
func populated(raw, id *int64, documentID *string, mode repo.PopulateMode) *models.Reference {
	switch {
	case raw == nil:
		return nil
	case id == nil:
		return &models.Reference{ID: *raw}
	case mode == repo.PopulateFull && documentID != nil:
		return &models.Reference{ID: *id, DocumentID: *documentID}
	default:
		return &models.Reference{ID: *id}
	}
}

// Create inserts a record. Single relations found in Attributes (or the
// record's Parent) are written to their columns; a reference known only by
// documentId is resolved with a subquery.
func (r *PostgresRecordRepository) Create(ctx context.Context, ct *schema.ContentType, rec *models.Record) error {
	if rec.DocumentID == "" {
		rec.DocumentID = uuid.NewString()
	}

	table := r.tables.For(ct)
	columns := []string{"document_id", "slug", "published_at", "attributes"}
	var slug any
	if rec.Slug != "" {
		slug = rec.Slug
	}
	args := []any{rec.DocumentID, slug, rec.PublishedAt}
	values := []string{"$1", "$2", "$3", "$4"}

	attrs := make(map[string]any, len(rec.Attributes))
	relations := make(map[string]*models.Reference)
	for k, v := range rec.Attributes {
		if f, ok := ct.Field(k); ok && f.IsSingleRelation() {
			relations[k] = models.ReferenceFrom(v)
			continue
		}
		attrs[k] = v
	}
	if rec.ParentField != "" {
		relations[rec.ParentField] = rec.Parent
	}
	args = append(args, attrs)

	if rec.ID != 0 {
		args = append(args, rec.ID)
		columns = append(columns, "id")
		values = append(values, fmt.Sprintf("$%d", len(args)))
	}

	for _, field := range ct.SingleRelations() {
		ref := relations[field]
		if ref.IsZero() {
			continue
		}
		columns = append(columns, relationColumn(field))
		if ref.ID > 0 {
			args = append(args, ref.ID)
			values = append(values, fmt.Sprintf("$%d", len(args)))
			continue
		}
		args = append(args, ref.DocumentID)
		values = append(values, fmt.Sprintf("(SELECT id FROM %s WHERE document_id = $%d ORDER BY id LIMIT 1)", table, len(args)))
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		table, strings.Join(columns, ", "), strings.Join(values, ", "))

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&rec.ID); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("%s record %d already exists: %w", ct.Kind, rec.ID, domain.ErrValidation)
		}
		return fmt.Errorf("create %s: %w", ct.Kind, err)
	}

	return nil
}

// Unpublish clears published_at on every row of a document
func (r *PostgresRecordRepository) Unpublish(ctx context.Context, ct *schema.ContentType, documentID string) (int, error) {
	query := fmt.Sprintf(`UPDATE %s SET published_at = NULL WHERE document_id = $1`, r.tables.For(ct))

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, documentID)
	if err != nil {
		return 0, fmt.Errorf("unpublish %s %s: %w", ct.Kind, documentID, err)
	}
	return int(tag.RowsAffected()), nil
}

// Ping checks the pool can reach the database
func (r *PostgresRecordRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
