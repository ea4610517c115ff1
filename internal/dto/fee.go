package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// AssignFeeRequest creates an enrollment fee from a fee structure.
type AssignFeeRequest struct {
	EnrollmentID string `json:"enrollmentID" binding:"required"`
	StudentID    string `json:"studentID" binding:"required"`
	StructureID  string `json:"structureID" binding:"required"`
}

// AddDiscountRequest adds a discount line item to a fee.
type AddDiscountRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DiscountTypeID string          `json:"discountTypeID" binding:"required"`
	Reason         string          `json:"reason"`
	ApprovedBy     string          `json:"approvedBy"`
}

// AddChargeRequest adds a charge line item to a fee.
type AddChargeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// AddArrearRequest adds an arrear (carried-over balance) line item to a fee.
type AddArrearRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}

// AddTransactionRequest records a payment against a fee.
type AddTransactionRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	VoucherNo string          `json:"voucherNo"`
	Reason    string          `json:"reason"`
}

// UpdateFeeStructureRequest rebases a fee onto a different structure.
type UpdateFeeStructureRequest struct {
	StructureID string `json:"structureID" binding:"required"`
}

// WaiveFeeRequest marks a fee as administratively waived.
type WaiveFeeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EnrollmentFeeResponse is the API representation of a fee account.
type EnrollmentFeeResponse struct {
	FeeID            string          `json:"feeID"`
	EnrollmentID     string          `json:"enrollmentID"`
	StudentID        string          `json:"studentID"`
	StructureID      string          `json:"structureID"`
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
	PaymentStatus    string          `json:"paymentStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
}

// LineItemResponse is the API representation of one line item.
type LineItemResponse struct {
	ItemID         string          `json:"itemID"`
	FeeID          string          `json:"feeID"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason,omitempty"`
	DiscountTypeID string          `json:"discountTypeID,omitempty"`
	ApprovedBy     string          `json:"approvedBy,omitempty"`
	VoucherNo      string          `json:"voucherNo,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// ToEnrollmentFeeResponse converts a domain fee to its API representation.
func ToEnrollmentFeeResponse(fee *domain.EnrollmentFee) EnrollmentFeeResponse {
	return EnrollmentFeeResponse{
		FeeID:            fee.FeeID,
		EnrollmentID:     fee.EnrollmentID,
		StudentID:        fee.StudentID,
		StructureID:      fee.StructureID,
		BaseAmount:       fee.BaseAmount,
		DiscountedAmount: fee.DiscountedAmount,
		FinalAmount:      fee.FinalAmount,
		PaymentStatus:    string(fee.PaymentStatus),
		CreatedAt:        fee.CreatedAt,
		CreatedBy:        fee.CreatedBy,
		LastUpdatedAt:    fee.LastUpdatedAt,
	}
}

// ToLineItemResponse converts a domain line item to its API representation.
func ToLineItemResponse(item *domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ItemID:         item.ItemID,
		FeeID:          item.FeeID,
		Kind:           string(item.Kind),
		Amount:         item.Amount,
		Reason:         item.Reason,
		DiscountTypeID: item.DiscountTypeID,
		ApprovedBy:     item.ApprovedBy,
		VoucherNo:      item.VoucherNo,
		Active:         item.Active(),
		CreatedAt:      item.CreatedAt,
		CreatedBy:      item.CreatedBy,
	}
}

// ToLineItemResponses converts a slice of domain line items.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i := range items {
		responses[i] = ToLineItemResponse(&items[i])
	}
	return responses
}
