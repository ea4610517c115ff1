package services

import (
	"context"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// FeeStructureSvcFacade manages fee structures.
type FeeStructureSvcFacade interface {
	CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, actorID string) (*domain.FeeStructure, error)
	GetFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error)
	ListFeeStructures(ctx context.Context, limit int, offset int) ([]domain.FeeStructure, error)
}

// DiscountTypeSvcFacade manages the discount catalog.
type DiscountTypeSvcFacade interface {
	CreateDiscountType(ctx context.Context, req dto.CreateDiscountTypeRequest, actorID string) (*domain.DiscountType, error)
	GetDiscountTypeByID(ctx context.Context, discountTypeID string) (*domain.DiscountType, error)
	ListDiscountTypes(ctx context.Context, limit int, offset int) ([]domain.DiscountType, error)
}
