package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// FeeReader provides read access to enrollment fees and their line items.
type FeeReader interface {
	FindFeeByID(ctx context.Context, feeID string) (*domain.EnrollmentFee, error)
	ListFeesByStudent(ctx context.Context, studentID string) ([]domain.EnrollmentFee, error)
	// ListLineItems returns all line items of the given kind, including
	// soft-removed ones; callers filter on Active() as needed.
	ListLineItems(ctx context.Context, feeID string, kind domain.LineItemKind) ([]domain.LineItem, error)
}

// FeeRepositoryWithTx is the full persistence contract of the fee mutation
// service. The InTx methods must run on the supplied transaction so the
// whole read-recalculate-write sequence commits or rolls back as one unit.
type FeeRepositoryWithTx interface {
	TxManager
	FeeReader

	// FindFeeByIDForUpdate loads the fee row and locks it for the duration
	// of the transaction, serializing concurrent mutations per fee.
	FindFeeByIDForUpdate(ctx context.Context, tx pgx.Tx, feeID string) (*domain.EnrollmentFee, error)

	// ListActiveLineItemsInTx loads every active line item of the fee,
	// grouped by kind, as the input set for a recomputation.
	ListActiveLineItemsInTx(ctx context.Context, tx pgx.Tx, feeID string) (domain.LineItemSet, error)

	FindLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.LineItem, error)
	InsertFeeInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error
	InsertLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem) error
	SoftDeleteLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string, deletedBy string, deletedAt time.Time) error

	// UpdateFeeSnapshotInTx persists the derived amounts, payment status
	// and (for rebases) structure/base changes, bumping the row version.
	UpdateFeeSnapshotInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error
}
