package content

import (
	"context"
	"fmt"
	"strings"

	"pagetree/internal/schema"

	"pagetree/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
)

// createTableSQL returns the DDL of a kind table and its indexes. Relation
// columns carry no foreign key: the CMS tolerates dangling references and so
// does every reader here.
func createTableSQL(tables *postgres.TableNames, ct *schema.ContentType) []string {
	table := tables.For(ct)
	raw := tables.Raw(ct)

	cols := []string{
		"id BIGSERIAL PRIMARY KEY",
		"document_id TEXT NOT NULL",
		"slug TEXT",
		"published_at TIMESTAMPTZ",
		"attributes JSONB NOT NULL DEFAULT '{}'::jsonb",
	}
	for _, field := range ct.SingleRelations() {
		cols = append(cols, relationColumn(field)+" BIGINT")
	}

	index := func(suffix, expr string) string {
		name := pgx.Identifier{raw + "_" + suffix + "_idx"}.Sanitize()
		return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, table, expr)
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t")),
		index("document_id", "document_id"),
		index("slug", "slug"),
		index("published_at", "published_at"),
	}
	for _, field := range ct.SingleRelations() {
		stmts = append(stmts, index(field, relationColumn(field)))
	}
	return stmts
}

// EnsureTable creates the table of a kind when missing
func (r *PostgresRecordRepository) EnsureTable(ctx context.Context, ct *schema.ContentType) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	for _, stmt := range createTableSQL(r.tables, ct) {
		if _, err := executor.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table for %s: %w", ct.UID, err)
		}
	}
	return nil
}

// SyncSequence moves the id sequence past rows inserted with explicit ids
func (r *PostgresRecordRepository) SyncSequence(ctx context.Context, ct *schema.ContentType) error {
	table := r.tables.For(ct)
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`, table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, table); err != nil {
		return fmt.Errorf("sync id sequence of %s: %w", ct.UID, err)
	}
	return nil
}

// DropTable removes the table of a kind and its indexes
func (r *PostgresRecordRepository) DropTable(ctx context.Context, ct *schema.ContentType) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, "DROP TABLE IF EXISTS "+r.tables.For(ct)); err != nil {
		return fmt.Errorf("drop table for %s: %w", ct.UID, err)
	}
	return nil
}

// Truncate deletes every row of a kind and restarts its id sequence
func (r *PostgresRecordRepository) Truncate(ctx context.Context, ct *schema.ContentType) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, "TRUNCATE "+r.tables.For(ct)+" RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate %s: %w", ct.UID, err)
	}
	return nil
}
