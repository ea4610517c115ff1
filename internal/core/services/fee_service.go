package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
	"github.com/skolarity/fee_ledger_app/internal/utils/accounting"
)

// maxConflictRetries bounds the transparent retry loop for transient
// persistence conflicts. Validation failures are never retried.
const maxConflictRetries = 3

// feeService implements the account mutation operations on enrollment
// fees. Every mutation runs inside one database transaction with the fee
// row locked, so the read-recalculate-write sequence is serialized per fee
// while fees remain fully independent of each other.
type feeService struct {
	BaseService
	feeRepo          portsrepo.FeeRepositoryWithTx
	structureRepo    portsrepo.FeeStructureRepository
	discountTypeRepo portsrepo.DiscountTypeRepository
	history          portssvc.HistoryRecorderSvc
}

// NewFeeService creates a new fee mutation service with explicit
// dependencies; there is no ambient shared state.
func NewFeeService(
	feeRepo portsrepo.FeeRepositoryWithTx,
	structureRepo portsrepo.FeeStructureRepository,
	discountTypeRepo portsrepo.DiscountTypeRepository,
	history portssvc.HistoryRecorderSvc,
) portssvc.FeeSvcFacade {
	return &feeService{
		feeRepo:          feeRepo,
		structureRepo:    structureRepo,
		discountTypeRepo: discountTypeRepo,
		history:          history,
	}
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// mutateFee runs fn against the locked fee row inside one transaction,
// retrying a bounded number of times on transient persistence conflicts.
func (s *feeService) mutateFee(ctx context.Context, feeID string, fn func(tx pgx.Tx, fee *domain.EnrollmentFee) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err := s.mutateFeeOnce(ctx, feeID, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		lastErr = err
		s.LogWarn(ctx, "Retrying fee mutation after persistence conflict",
			slog.String("fee_id", feeID), slog.Int("attempt", attempt))
	}
	return lastErr
}

func (s *feeService) mutateFeeOnce(ctx context.Context, feeID string, fn func(tx pgx.Tx, fee *domain.EnrollmentFee) error) error {
	tx, err := s.feeRepo.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once the transaction has been committed.
	defer s.feeRepo.Rollback(ctx, tx)

	fee, err := s.feeRepo.FindFeeByIDForUpdate(ctx, tx, feeID)
	if err != nil {
		return err
	}

	if err := fn(tx, fee); err != nil {
		return err
	}

	return s.feeRepo.Commit(ctx, tx)
}

// saveRecomputedSnapshot derives the fee's amounts and status from the
// given active line-item set and persists the updated snapshot. A WAIVED
// status is preserved; it is never overwritten by a derived one.
func (s *feeService) saveRecomputedSnapshot(ctx context.Context, tx pgx.Tx, fee *domain.EnrollmentFee, set domain.LineItemSet, actorID string, now time.Time) error {
	snap := accounting.RecalculateSet(fee.BaseAmount, set)
	fee.DiscountedAmount = snap.DiscountedAmount
	fee.FinalAmount = snap.FinalAmount
	if fee.PaymentStatus != domain.PaymentWaived {
		fee.PaymentStatus = snap.PaymentStatus
	}
	fee.Version++
	fee.LastUpdatedAt = now
	fee.LastUpdatedBy = actorID
	return s.feeRepo.UpdateFeeSnapshotInTx(ctx, tx, *fee)
}

func validatePositiveAmount(kind domain.LineItemKind, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s amount (%s) must be positive", apperrors.ErrValidation, kind, amount)
	}
	return nil
}

// AssignFee creates an enrollment fee from a fee structure. The base
// amount is the sum of the structure's components; the derived amounts
// start equal to it with a PENDING status.
func (s *feeService) AssignFee(ctx context.Context, req dto.AssignFeeRequest, actorID string) (*domain.EnrollmentFee, error) {
	structure, err := s.structureRepo.FindFeeStructureByID(ctx, req.StructureID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load fee structure for assignment", slog.String("structure_id", req.StructureID))
		}
		return nil, err
	}
	if !structure.IsActive {
		return nil, fmt.Errorf("%w: fee structure %s is inactive", apperrors.ErrValidation, structure.StructureID)
	}

	baseAmount := structure.BaseAmount()
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: fee structure %s has a non-positive component sum (%s)", apperrors.ErrValidation, structure.StructureID, baseAmount)
	}

	now := time.Now().UTC()
	fee := domain.EnrollmentFee{
		FeeID:            uuid.NewString(),
		EnrollmentID:     req.EnrollmentID,
		StudentID:        req.StudentID,
		StructureID:      structure.StructureID,
		BaseAmount:       baseAmount,
		DiscountedAmount: baseAmount,
		FinalAmount:      baseAmount,
		PaymentStatus:    domain.PaymentPending,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	tx, err := s.feeRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.feeRepo.Rollback(ctx, tx)

	if err := s.feeRepo.InsertFeeInTx(ctx, tx, fee); err != nil {
		s.LogError(ctx, err, "Failed to insert enrollment fee", slog.String("enrollment_id", req.EnrollmentID))
		return nil, err
	}

	details := domain.HistoryDetails{
		NewStructureID:   structure.StructureID,
		NewBaseAmount:    &fee.BaseAmount,
		NewFinalAmount:   &fee.FinalAmount,
		NewPaymentStatus: fee.PaymentStatus,
	}
	if err := s.history.RecordInTx(ctx, tx, fee.FeeID, domain.ActionFeeAssigned, details, actorID); err != nil {
		return nil, err
	}

	if err := s.feeRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fee assigned successfully",
		slog.String("fee_id", fee.FeeID),
		slog.String("enrollment_id", fee.EnrollmentID),
		slog.String("structure_id", structure.StructureID))
	return &fee, nil
}

func (s *feeService) GetFeeByID(ctx context.Context, feeID string) (*domain.EnrollmentFee, error) {
	fee, err := s.feeRepo.FindFeeByID(ctx, feeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fee by ID", slog.String("fee_id", feeID))
		}
		return nil, err
	}
	return fee, nil
}

func (s *feeService) ListFeesByStudent(ctx context.Context, studentID string) ([]domain.EnrollmentFee, error) {
	fees, err := s.feeRepo.ListFeesByStudent(ctx, studentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fees for student", slog.String("student_id", studentID))
		return nil, err
	}
	if fees == nil {
		fees = []domain.EnrollmentFee{}
	}
	return fees, nil
}

func (s *feeService) ListLineItems(ctx context.Context, feeID string, kind domain.LineItemKind) ([]domain.LineItem, error) {
	if _, err := s.feeRepo.FindFeeByID(ctx, feeID); err != nil {
		return nil, err
	}
	items, err := s.feeRepo.ListLineItems(ctx, feeID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to list line items", slog.String("fee_id", feeID), slog.String("kind", string(kind)))
		return nil, err
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

// AddDiscount adds a discount line item. The combined active discount
// total must not exceed the fee's base amount; a violating request is
// rejected before anything is written.
func (s *feeService) AddDiscount(ctx context.Context, feeID string, req dto.AddDiscountRequest, actorID string) (*domain.LineItem, error) {
	if err := validatePositiveAmount(domain.KindDiscount, req.Amount); err != nil {
		return nil, err
	}

	discountType, err := s.discountTypeRepo.FindDiscountTypeByID(ctx, req.DiscountTypeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load discount type", slog.String("discount_type_id", req.DiscountTypeID))
		}
		return nil, err
	}
	if !discountType.IsActive {
		return nil, fmt.Errorf("%w: discount type %s is inactive", apperrors.ErrValidation, discountType.DiscountTypeID)
	}

	var created domain.LineItem
	err = s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		set, err := s.feeRepo.ListActiveLineItemsInTx(ctx, tx, feeID)
		if err != nil {
			return err
		}

		existingDiscounts := domain.SumAmounts(set.Discounts)
		if existingDiscounts.Add(req.Amount).GreaterThan(fee.BaseAmount) {
			return fmt.Errorf("%w: discount amount (%s) combined with existing discounts (%s) cannot exceed the base fee amount (%s)",
				apperrors.ErrValidation, req.Amount, existingDiscounts, fee.BaseAmount)
		}

		now := time.Now().UTC()
		item := domain.LineItem{
			ItemID:         uuid.NewString(),
			FeeID:          feeID,
			Kind:           domain.KindDiscount,
			Amount:         req.Amount,
			Reason:         req.Reason,
			DiscountTypeID: discountType.DiscountTypeID,
			ApprovedBy:     req.ApprovedBy,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		if err := s.feeRepo.InsertLineItemInTx(ctx, tx, item); err != nil {
			return err
		}
		set.Add(item)

		oldFinal := fee.FinalAmount
		oldStatus := fee.PaymentStatus
		if err := s.saveRecomputedSnapshot(ctx, tx, fee, set, actorID, now); err != nil {
			return err
		}

		details := domain.HistoryDetails{
			ItemID:           item.ItemID,
			ItemKind:         domain.KindDiscount,
			Amount:           &item.Amount,
			Reason:           item.Reason,
			OldFinalAmount:   &oldFinal,
			NewFinalAmount:   &fee.FinalAmount,
			OldPaymentStatus: oldStatus,
			NewPaymentStatus: fee.PaymentStatus,
		}
		if err := s.history.RecordInTx(ctx, tx, feeID, domain.ActionDiscountAdded, details, actorID); err != nil {
			return err
		}

		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Discount added successfully",
		slog.String("fee_id", feeID), slog.String("item_id", created.ItemID))
	return &created, nil
}

// AddCharge adds a charge line item, raising the final amount.
func (s *feeService) AddCharge(ctx context.Context, feeID string, req dto.AddChargeRequest, actorID string) (*domain.LineItem, error) {
	return s.addSimpleItem(ctx, feeID, domain.KindCharge, domain.ActionChargeAdded, req.Amount, req.Reason, "", actorID)
}

// AddArrear adds an arrear (carried-over balance) line item.
func (s *feeService) AddArrear(ctx context.Context, feeID string, req dto.AddArrearRequest, actorID string) (*domain.LineItem, error) {
	return s.addSimpleItem(ctx, feeID, domain.KindArrear, domain.ActionArrearAdded, req.Amount, req.Reason, "", actorID)
}

// AddTransaction records a payment against the fee. A fee that is already
// PAID or WAIVED accepts no further transactions.
func (s *feeService) AddTransaction(ctx context.Context, feeID string, req dto.AddTransactionRequest, actorID string) (*domain.LineItem, error) {
	if err := validatePositiveAmount(domain.KindTransaction, req.Amount); err != nil {
		return nil, err
	}

	var created domain.LineItem
	err := s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		if fee.IsSettled() {
			return fmt.Errorf("%w: fee %s has payment status %s and accepts no further transactions",
				apperrors.ErrAlreadySettled, feeID, fee.PaymentStatus)
		}

		item, err := s.insertItemAndRecord(ctx, tx, fee, domain.KindTransaction, domain.ActionTransactionAdded, req.Amount, req.Reason, req.VoucherNo, actorID)
		if err != nil {
			return err
		}
		created = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transaction recorded successfully",
		slog.String("fee_id", feeID), slog.String("item_id", created.ItemID))
	return &created, nil
}

// addSimpleItem is the shared add path for charges and arrears.
func (s *feeService) addSimpleItem(ctx context.Context, feeID string, kind domain.LineItemKind, action domain.HistoryAction, amount decimal.Decimal, reason, voucherNo, actorID string) (*domain.LineItem, error) {
	if err := validatePositiveAmount(kind, amount); err != nil {
		return nil, err
	}

	var created domain.LineItem
	err := s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		item, err := s.insertItemAndRecord(ctx, tx, fee, kind, action, amount, reason, voucherNo, actorID)
		if err != nil {
			return err
		}
		created = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Line item added successfully",
		slog.String("fee_id", feeID), slog.String("kind", string(kind)), slog.String("item_id", created.ItemID))
	return &created, nil
}

// insertItemAndRecord inserts one line item, recomputes the snapshot and
// appends the audit entry, in that order, on the caller's transaction.
func (s *feeService) insertItemAndRecord(ctx context.Context, tx pgx.Tx, fee *domain.EnrollmentFee, kind domain.LineItemKind, action domain.HistoryAction, amount decimal.Decimal, reason, voucherNo, actorID string) (*domain.LineItem, error) {
	set, err := s.feeRepo.ListActiveLineItemsInTx(ctx, tx, fee.FeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := domain.LineItem{
		ItemID:    uuid.NewString(),
		FeeID:     fee.FeeID,
		Kind:      kind,
		Amount:    amount,
		Reason:    reason,
		VoucherNo: voucherNo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.feeRepo.InsertLineItemInTx(ctx, tx, item); err != nil {
		return nil, err
	}
	set.Add(item)

	oldFinal := fee.FinalAmount
	oldStatus := fee.PaymentStatus
	if err := s.saveRecomputedSnapshot(ctx, tx, fee, set, actorID, now); err != nil {
		return nil, err
	}

	details := domain.HistoryDetails{
		ItemID:           item.ItemID,
		ItemKind:         kind,
		Amount:           &item.Amount,
		Reason:           reason,
		VoucherNo:        voucherNo,
		OldFinalAmount:   &oldFinal,
		NewFinalAmount:   &fee.FinalAmount,
		OldPaymentStatus: oldStatus,
		NewPaymentStatus: fee.PaymentStatus,
	}
	if err := s.history.RecordInTx(ctx, tx, fee.FeeID, action, details, actorID); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveDiscount soft-removes a discount line item and restores the
// derived amounts as if it had never applied.
func (s *feeService) RemoveDiscount(ctx context.Context, feeID string, itemID string, actorID string) error {
	return s.removeItem(ctx, feeID, itemID, domain.KindDiscount, domain.ActionDiscountRemoved, actorID)
}

// RemoveCharge soft-removes a charge line item.
func (s *feeService) RemoveCharge(ctx context.Context, feeID string, itemID string, actorID string) error {
	return s.removeItem(ctx, feeID, itemID, domain.KindCharge, domain.ActionChargeRemoved, actorID)
}

// RemoveArrear soft-removes an arrear line item.
func (s *feeService) RemoveArrear(ctx context.Context, feeID string, itemID string, actorID string) error {
	return s.removeItem(ctx, feeID, itemID, domain.KindArrear, domain.ActionArrearRemoved, actorID)
}

func (s *feeService) removeItem(ctx context.Context, feeID, itemID string, kind domain.LineItemKind, action domain.HistoryAction, actorID string) error {
	err := s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		item, err := s.feeRepo.FindLineItemInTx(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.FeeID != feeID || item.Kind != kind || !item.Active() {
			return fmt.Errorf("%w: %s line item %s not found on fee %s", apperrors.ErrNotFound, kind, itemID, feeID)
		}

		// Fall back to the item's creator when the caller supplied no
		// actor, matching the remove-path audit attribution.
		historyActor := actorID
		if historyActor == "" {
			historyActor = item.CreatedBy
		}

		now := time.Now().UTC()
		if err := s.feeRepo.SoftDeleteLineItemInTx(ctx, tx, itemID, historyActor, now); err != nil {
			return err
		}

		set, err := s.feeRepo.ListActiveLineItemsInTx(ctx, tx, feeID)
		if err != nil {
			return err
		}

		oldFinal := fee.FinalAmount
		oldStatus := fee.PaymentStatus
		if err := s.saveRecomputedSnapshot(ctx, tx, fee, set, historyActor, now); err != nil {
			return err
		}

		details := domain.HistoryDetails{
			ItemID:           item.ItemID,
			ItemKind:         kind,
			Amount:           &item.Amount,
			Reason:           item.Reason,
			OldFinalAmount:   &oldFinal,
			NewFinalAmount:   &fee.FinalAmount,
			OldPaymentStatus: oldStatus,
			NewPaymentStatus: fee.PaymentStatus,
		}
		return s.history.RecordInTx(ctx, tx, feeID, action, details, historyActor)
	})
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Line item removed successfully",
		slog.String("fee_id", feeID), slog.String("kind", string(kind)), slog.String("item_id", itemID))
	return nil
}

// UpdateEnrollmentFee rebases the fee onto a different structure: the base
// amount is recomputed from the new structure's component sum and the
// derived amounts are re-derived against it using the existing active line
// items. The discount-exceeds-base invariant is re-validated against the
// new base.
func (s *feeService) UpdateEnrollmentFee(ctx context.Context, feeID string, req dto.UpdateFeeStructureRequest, actorID string) (*domain.EnrollmentFee, error) {
	structure, err := s.structureRepo.FindFeeStructureByID(ctx, req.StructureID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load fee structure for rebase", slog.String("structure_id", req.StructureID))
		}
		return nil, err
	}
	if !structure.IsActive {
		return nil, fmt.Errorf("%w: fee structure %s is inactive", apperrors.ErrValidation, structure.StructureID)
	}

	var updated domain.EnrollmentFee
	err = s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		newBase := structure.BaseAmount()
		if newBase.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: fee structure %s has a non-positive component sum (%s)", apperrors.ErrValidation, structure.StructureID, newBase)
		}

		set, err := s.feeRepo.ListActiveLineItemsInTx(ctx, tx, feeID)
		if err != nil {
			return err
		}

		activeDiscounts := domain.SumAmounts(set.Discounts)
		if activeDiscounts.GreaterThan(newBase) {
			return fmt.Errorf("%w: active discounts (%s) cannot exceed the new base fee amount (%s)",
				apperrors.ErrValidation, activeDiscounts, newBase)
		}

		oldStructureID := fee.StructureID
		oldBase := fee.BaseAmount
		oldFinal := fee.FinalAmount
		oldStatus := fee.PaymentStatus

		now := time.Now().UTC()
		fee.StructureID = structure.StructureID
		fee.BaseAmount = newBase
		if err := s.saveRecomputedSnapshot(ctx, tx, fee, set, actorID, now); err != nil {
			return err
		}

		details := domain.HistoryDetails{
			OldStructureID:   oldStructureID,
			NewStructureID:   structure.StructureID,
			OldBaseAmount:    &oldBase,
			NewBaseAmount:    &fee.BaseAmount,
			OldFinalAmount:   &oldFinal,
			NewFinalAmount:   &fee.FinalAmount,
			OldPaymentStatus: oldStatus,
			NewPaymentStatus: fee.PaymentStatus,
		}
		if err := s.history.RecordInTx(ctx, tx, feeID, domain.ActionFeeUpdated, details, actorID); err != nil {
			return err
		}

		updated = *fee
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fee rebased successfully",
		slog.String("fee_id", feeID), slog.String("structure_id", structure.StructureID))
	return &updated, nil
}

// WaiveFee is the explicit administrative transition to the terminal
// WAIVED status. It is never derived and never reverted automatically.
func (s *feeService) WaiveFee(ctx context.Context, feeID string, req dto.WaiveFeeRequest, actorID string) (*domain.EnrollmentFee, error) {
	var updated domain.EnrollmentFee
	err := s.mutateFee(ctx, feeID, func(tx pgx.Tx, fee *domain.EnrollmentFee) error {
		if fee.PaymentStatus == domain.PaymentWaived {
			return fmt.Errorf("%w: fee %s is already waived", apperrors.ErrValidation, feeID)
		}

		oldStatus := fee.PaymentStatus
		now := time.Now().UTC()
		fee.PaymentStatus = domain.PaymentWaived
		fee.Version++
		fee.LastUpdatedAt = now
		fee.LastUpdatedBy = actorID
		if err := s.feeRepo.UpdateFeeSnapshotInTx(ctx, tx, *fee); err != nil {
			return err
		}

		details := domain.HistoryDetails{
			Reason:           req.Reason,
			OldPaymentStatus: oldStatus,
			NewPaymentStatus: domain.PaymentWaived,
		}
		if err := s.history.RecordInTx(ctx, tx, feeID, domain.ActionFeeWaived, details, actorID); err != nil {
			return err
		}

		updated = *fee
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Fee waived", slog.String("fee_id", feeID))
	return &updated, nil
}
