package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// HistoryRepository is the append-only store of fee mutation audit records.
// There are deliberately no update or delete operations.
type HistoryRepository interface {
	// AppendHistoryInTx writes one entry on the supplied transaction so the
	// audit record commits together with the mutation it describes.
	AppendHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.HistoryEntry) error

	// ListHistoryByFeeID returns entries newest first with token pagination.
	ListHistoryByFeeID(ctx context.Context, feeID string, limit int, nextToken *string) ([]domain.HistoryEntry, *string, error)
}
