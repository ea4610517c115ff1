package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	"github.com/skolarity/fee_ledger_app/internal/models"
	"github.com/skolarity/fee_ledger_app/internal/utils/mapping"
)

const feeColumns = `fee_id, enrollment_id, student_id, structure_id, base_amount, discounted_amount, final_amount, payment_status, version, created_at, created_by, last_updated_at, last_updated_by`

const lineItemColumns = `item_id, fee_id, kind, amount, reason, discount_type_id, approved_by, voucher_no, deleted_at, deleted_by, created_at, created_by, last_updated_at, last_updated_by`

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type PgxFeeRepository struct {
	BaseRepository
}

// newPgxFeeRepository creates a new repository for enrollment fee data.
func newPgxFeeRepository(pool *pgxpool.Pool) portsrepo.FeeRepositoryWithTx {
	return &PgxFeeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeRepositoryWithTx = (*PgxFeeRepository)(nil)

func scanFee(row rowScanner) (models.EnrollmentFee, error) {
	var m models.EnrollmentFee
	err := row.Scan(
		&m.FeeID,
		&m.EnrollmentID,
		&m.StudentID,
		&m.StructureID,
		&m.BaseAmount,
		&m.DiscountedAmount,
		&m.FinalAmount,
		&m.PaymentStatus,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLineItem(row rowScanner) (models.LineItem, error) {
	var m models.LineItem
	err := row.Scan(
		&m.ItemID,
		&m.FeeID,
		&m.Kind,
		&m.Amount,
		&m.Reason,
		&m.DiscountTypeID,
		&m.ApprovedBy,
		&m.VoucherNo,
		&m.DeletedAt,
		&m.DeletedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindFeeByID retrieves an enrollment fee by its ID.
func (r *PgxFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.EnrollmentFee, error) {
	query := `SELECT ` + feeColumns + ` FROM enrollment_fees WHERE fee_id = $1;`

	m, err := scanFee(r.Pool.QueryRow(ctx, query, feeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fee with ID %s not found", apperrors.ErrNotFound, feeID)
		}
		return nil, fmt.Errorf("failed to find fee %s: %w", feeID, err)
	}

	fee := mapping.ToDomainEnrollmentFee(m)
	return &fee, nil
}

// ListFeesByStudent retrieves all fees assigned to a student, newest first.
func (r *PgxFeeRepository) ListFeesByStudent(ctx context.Context, studentID string) ([]domain.EnrollmentFee, error) {
	query := `SELECT ` + feeColumns + ` FROM enrollment_fees WHERE student_id = $1 ORDER BY created_at DESC, fee_id DESC;`

	rows, err := r.Pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees for student %s: %w", studentID, err)
	}
	defer rows.Close()

	var fees []domain.EnrollmentFee
	for rows.Next() {
		m, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		fees = append(fees, mapping.ToDomainEnrollmentFee(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee rows: %w", err)
	}
	return fees, nil
}

// ListLineItems retrieves all line items of one kind for a fee, including
// soft-removed ones, newest first.
func (r *PgxFeeRepository) ListLineItems(ctx context.Context, feeID string, kind domain.LineItemKind) ([]domain.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE fee_id = $1 AND kind = $2 ORDER BY created_at DESC, item_id DESC;`

	rows, err := r.Pool.Query(ctx, query, feeID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items for fee %s: %w", kind, feeID, err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", err)
	}
	return items, nil
}

// FindFeeByIDForUpdate loads the fee row and locks it until the transaction
// ends. Concurrent mutations of the same fee queue on this lock.
func (r *PgxFeeRepository) FindFeeByIDForUpdate(ctx context.Context, tx pgx.Tx, feeID string) (*domain.EnrollmentFee, error) {
	query := `SELECT ` + feeColumns + ` FROM enrollment_fees WHERE fee_id = $1 FOR UPDATE;`

	m, err := scanFee(tx.QueryRow(ctx, query, feeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fee with ID %s not found", apperrors.ErrNotFound, feeID)
		}
		return nil, translatePgError(err, fmt.Sprintf("failed to lock fee %s", feeID))
	}

	fee := mapping.ToDomainEnrollmentFee(m)
	return &fee, nil
}

// ListActiveLineItemsInTx loads every active line item of a fee grouped by
// kind, in creation order, as the input set for a recomputation.
func (r *PgxFeeRepository) ListActiveLineItemsInTx(ctx context.Context, tx pgx.Tx, feeID string) (domain.LineItemSet, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE fee_id = $1 AND deleted_at IS NULL ORDER BY created_at ASC, item_id ASC;`

	rows, err := tx.Query(ctx, query, feeID)
	if err != nil {
		return domain.LineItemSet{}, fmt.Errorf("failed to list active line items for fee %s: %w", feeID, err)
	}
	defer rows.Close()

	var set domain.LineItemSet
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return domain.LineItemSet{}, fmt.Errorf("failed to scan line item row: %w", err)
		}
		set.Add(mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return domain.LineItemSet{}, fmt.Errorf("error iterating line item rows: %w", err)
	}
	return set, nil
}

// FindLineItemInTx loads one line item by ID on the transaction.
func (r *PgxFeeRepository) FindLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string) (*domain.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE item_id = $1;`

	m, err := scanLineItem(tx.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: line item with ID %s not found", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to find line item %s: %w", itemID, err)
	}

	item := mapping.ToDomainLineItem(m)
	return &item, nil
}

// InsertFeeInTx inserts a new enrollment fee on the transaction.
func (r *PgxFeeRepository) InsertFeeInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error {
	m := mapping.ToModelEnrollmentFee(fee)

	query := `
		INSERT INTO enrollment_fees (` + feeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.FeeID,
		m.EnrollmentID,
		m.StudentID,
		m.StructureID,
		m.BaseAmount,
		m.DiscountedAmount,
		m.FinalAmount,
		m.PaymentStatus,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to insert fee %s", m.FeeID))
	}
	return nil
}

// InsertLineItemInTx inserts a new line item on the transaction.
func (r *PgxFeeRepository) InsertLineItemInTx(ctx context.Context, tx pgx.Tx, item domain.LineItem) error {
	m := mapping.ToModelLineItem(item)

	query := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.ItemID,
		m.FeeID,
		m.Kind,
		m.Amount,
		m.Reason,
		m.DiscountTypeID,
		m.ApprovedBy,
		m.VoucherNo,
		m.DeletedAt,
		m.DeletedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to insert line item %s", m.ItemID))
	}
	return nil
}

// SoftDeleteLineItemInTx marks a line item as removed. The row is kept for
// the audit trail; only the soft-delete columns change.
func (r *PgxFeeRepository) SoftDeleteLineItemInTx(ctx context.Context, tx pgx.Tx, itemID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE line_items
		SET deleted_at = $2, deleted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE item_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query, itemID, deletedAt, deletedBy)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to soft delete line item %s", itemID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: line item with ID %s not found or already removed", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// UpdateFeeSnapshotInTx persists the derived snapshot of a fee. The caller
// holds the row lock, so a plain update by ID is race free.
func (r *PgxFeeRepository) UpdateFeeSnapshotInTx(ctx context.Context, tx pgx.Tx, fee domain.EnrollmentFee) error {
	m := mapping.ToModelEnrollmentFee(fee)

	query := `
		UPDATE enrollment_fees
		SET structure_id = $2,
			base_amount = $3,
			discounted_amount = $4,
			final_amount = $5,
			payment_status = $6,
			version = $7,
			last_updated_at = $8,
			last_updated_by = $9
		WHERE fee_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.FeeID,
		m.StructureID,
		m.BaseAmount,
		m.DiscountedAmount,
		m.FinalAmount,
		m.PaymentStatus,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to update fee snapshot %s", m.FeeID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fee with ID %s not found", apperrors.ErrNotFound, m.FeeID)
	}
	return nil
}
