package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"pagetree/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type fakeTx struct{ pgx.Tx }

func TestExecTx_JoinsEnclosingTransaction(t *testing.T) {
	// No pool: a nested call must never begin its own transaction
	tm := NewTransactionManager(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	outer := repositories.WithTx(context.Background(), fakeTx{})

	var joined bool
	err := tm.ExecTx(outer, func(ctx context.Context) error {
		_, joined = repositories.TxFrom(ctx)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, joined)

	boom := errors.New("boom")
	assert.ErrorIs(t, tm.ExecTx(outer, func(context.Context) error { return boom }), boom)
}

func TestGetExecutor_PrefersTransaction(t *testing.T) {
	tx := fakeTx{}
	assert.Equal(t, tx, GetExecutor(repositories.WithTx(context.Background(), tx), nil))
}
