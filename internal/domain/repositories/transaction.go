package repositories

import "context"

// TxFn is the unit of work ExecTx runs; its ctx carries the transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs a TxFn atomically. A call made with a context
// that already carries a transaction joins it instead of nesting.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
