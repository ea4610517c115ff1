package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager exposes transaction lifecycle control to services that need to
// group several repository calls into one atomic unit.
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
