package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"pagetree/internal/domain/repositories"
	"pagetree/internal/schema"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames maps content kinds onto environment-prefixed tables
type TableNames struct {
	Prefix string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{Prefix: prefix}
}

// For returns the quoted table of a content kind, e.g. "dev_pagine"
func (t *TableNames) For(ct *schema.ContentType) string {
	return pgx.Identifier{t.Raw(ct)}.Sanitize()
}

// Raw returns the unquoted table name, used to derive index names
func (t *TableNames) Raw(ct *schema.ContentType) string {
	return fmt.Sprintf("%s%s", t.Prefix, ct.Table)
}

// CreateConnectionPool creates a new pgx connection pool with automatic PgBouncer compatibility.
//
// Port 6543 (Supabase transaction pooler) does not support prepared
// statements, so cache_describe mode is selected there unless the connection
// string sets default_query_exec_mode itself. cache_describe still uses the
// extended protocol, which JSONB attribute maps need.
//
// Table names are interpolated with fmt.Sprintf before the statement reaches
// the server, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there
// is none, so repositories join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx, ok := repositories.TxFrom(ctx); ok {
		return tx
	}
	return pool
}
