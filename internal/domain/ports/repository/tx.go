package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks a non-transactional call; repositories must accept it.
var NoTX Tx = nil

// TransactionManager executes a function within a database transaction,
// passing the backend-defined handle through the Tx argument. Repositories
// detect a live transaction implementation-side and fall back to their pool
// when given NoTX. Keep this interface small and stable.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
