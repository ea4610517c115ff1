package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemKind mirrors the closed set of line item variants.
type LineItemKind string

const (
	KindDiscount    LineItemKind = "DISCOUNT"
	KindCharge      LineItemKind = "CHARGE"
	KindArrear      LineItemKind = "ARREAR"
	KindTransaction LineItemKind = "TRANSACTION"
)

// LineItem is the database representation of one financial adjustment.
// Nullable columns use pointers; kind-specific fields are empty for other
// kinds.
type LineItem struct {
	ItemID         string          `json:"itemID"`
	FeeID          string          `json:"feeID"`
	Kind           LineItemKind    `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	DiscountTypeID *string         `json:"discountTypeID,omitempty"`
	ApprovedBy     *string         `json:"approvedBy,omitempty"`
	VoucherNo      *string         `json:"voucherNo,omitempty"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
	DeletedBy      *string         `json:"deletedBy,omitempty"`
	AuditFields
}
