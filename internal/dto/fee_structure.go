package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// FeeComponentRequest is one validated component of a fee structure.
type FeeComponentRequest struct {
	Name        string          `json:"name" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=TUITION LEVY OPTIONAL"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// CreateFeeStructureRequest creates a fee structure.
type CreateFeeStructureRequest struct {
	Name       string                `json:"name" binding:"required"`
	Term       string                `json:"term" binding:"required"`
	Components []FeeComponentRequest `json:"components" binding:"required,min=1,dive"`
}

// FeeStructureResponse is the API representation of a fee structure.
type FeeStructureResponse struct {
	StructureID string                `json:"structureID"`
	Name        string                `json:"name"`
	Term        string                `json:"term"`
	Components  []domain.FeeComponent `json:"components"`
	BaseAmount  decimal.Decimal       `json:"baseAmount"`
	IsActive    bool                  `json:"isActive"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// CreateDiscountTypeRequest creates a discount catalog entry.
type CreateDiscountTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// DiscountTypeResponse is the API representation of a discount type.
type DiscountTypeResponse struct {
	DiscountTypeID string    `json:"discountTypeID"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToFeeStructureResponse converts a domain fee structure.
func ToFeeStructureResponse(fs *domain.FeeStructure) FeeStructureResponse {
	return FeeStructureResponse{
		StructureID: fs.StructureID,
		Name:        fs.Name,
		Term:        fs.Term,
		Components:  fs.Components,
		BaseAmount:  fs.BaseAmount(),
		IsActive:    fs.IsActive,
		CreatedAt:   fs.CreatedAt,
	}
}

// ToDiscountTypeResponse converts a domain discount type.
func ToDiscountTypeResponse(dt *domain.DiscountType) DiscountTypeResponse {
	return DiscountTypeResponse{
		DiscountTypeID: dt.DiscountTypeID,
		Name:           dt.Name,
		Description:    dt.Description,
		IsActive:       dt.IsActive,
		CreatedAt:      dt.CreatedAt,
	}
}
