package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus indicates how much of a fee's final amount has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	// PaymentWaived is a terminal administrative status. It is never derived
	// from transaction totals and never reverted automatically.
	PaymentWaived PaymentStatus = "WAIVED"
)

// EnrollmentFee represents one student's financial obligation under one fee
// structure. BaseAmount changes only when the fee is rebased onto a new
// structure; DiscountedAmount, FinalAmount and PaymentStatus are derived
// from the fee's active line items and rewritten on every mutation.
type EnrollmentFee struct {
	FeeID            string          `json:"feeID"`        // Primary Key (UUID)
	EnrollmentID     string          `json:"enrollmentID"` // The enrollment this fee was assigned to
	StudentID        string          `json:"studentID"`
	StructureID      string          `json:"structureID"` // FK -> fee_structures.structure_id
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Version          int64           `json:"version"` // Incremented on every snapshot write
	AuditFields
}

// IsSettled reports whether the fee accepts no further transactions.
func (f *EnrollmentFee) IsSettled() bool {
	return f.PaymentStatus == PaymentPaid || f.PaymentStatus == PaymentWaived
}
