package services

import (
	"context"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// FeeSvcFacade is the account mutation service: every operation that
// changes an enrollment fee's line-item set or derived snapshot. Each
// mutation is atomic, recomputes the derived amounts from the full active
// line-item set, and produces exactly one history entry.
type FeeSvcFacade interface {
	AssignFee(ctx context.Context, req dto.AssignFeeRequest, actorID string) (*domain.EnrollmentFee, error)
	GetFeeByID(ctx context.Context, feeID string) (*domain.EnrollmentFee, error)
	ListFeesByStudent(ctx context.Context, studentID string) ([]domain.EnrollmentFee, error)
	ListLineItems(ctx context.Context, feeID string, kind domain.LineItemKind) ([]domain.LineItem, error)

	AddDiscount(ctx context.Context, feeID string, req dto.AddDiscountRequest, actorID string) (*domain.LineItem, error)
	RemoveDiscount(ctx context.Context, feeID string, itemID string, actorID string) error
	AddCharge(ctx context.Context, feeID string, req dto.AddChargeRequest, actorID string) (*domain.LineItem, error)
	RemoveCharge(ctx context.Context, feeID string, itemID string, actorID string) error
	AddArrear(ctx context.Context, feeID string, req dto.AddArrearRequest, actorID string) (*domain.LineItem, error)
	RemoveArrear(ctx context.Context, feeID string, itemID string, actorID string) error
	AddTransaction(ctx context.Context, feeID string, req dto.AddTransactionRequest, actorID string) (*domain.LineItem, error)

	// UpdateEnrollmentFee rebases the fee onto a different structure,
	// recomputing the base amount from the new structure's components.
	UpdateEnrollmentFee(ctx context.Context, feeID string, req dto.UpdateFeeStructureRequest, actorID string) (*domain.EnrollmentFee, error)

	// WaiveFee is the explicit administrative transition to WAIVED.
	WaiveFee(ctx context.Context, feeID string, req dto.WaiveFeeRequest, actorID string) (*domain.EnrollmentFee, error)
}
