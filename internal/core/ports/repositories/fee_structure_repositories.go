package repositories

import (
	"context"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// FeeStructureRepository persists fee structures and their components.
type FeeStructureRepository interface {
	SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error
	FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error)
	ListFeeStructures(ctx context.Context, limit int, offset int) ([]domain.FeeStructure, error)
}

// DiscountTypeRepository persists the discount catalog.
type DiscountTypeRepository interface {
	SaveDiscountType(ctx context.Context, dt domain.DiscountType) error
	FindDiscountTypeByID(ctx context.Context, discountTypeID string) (*domain.DiscountType, error)
	ListDiscountTypes(ctx context.Context, limit int, offset int) ([]domain.DiscountType, error)
}
