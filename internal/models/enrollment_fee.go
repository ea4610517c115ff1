package models

import "github.com/shopspring/decimal"

// PaymentStatus indicates how much of a fee's final amount has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentWaived  PaymentStatus = "WAIVED"
)

// EnrollmentFee is the database representation of a student's fee account.
type EnrollmentFee struct {
	FeeID            string          `json:"feeID"`
	EnrollmentID     string          `json:"enrollmentID"`
	StudentID        string          `json:"studentID"`
	StructureID      string          `json:"structureID"`
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	Version          int64           `json:"version"`
	AuditFields
}
