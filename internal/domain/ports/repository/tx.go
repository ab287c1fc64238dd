package repository

import "context"

// Tx is an opaque transaction handle threaded through repository calls.
// Postgres implementations accept a pgx.Tx; nil means "use the pool".
type Tx interface{}

// TransactionManager opens a transaction, invokes fn with the handle, and
// commits or rolls back depending on fn's error.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
