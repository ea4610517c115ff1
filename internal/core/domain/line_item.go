package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemKind is the closed set of financial adjustment variants a fee can
// carry. Discounts reduce the base amount, charges and arrears add to the
// final amount, transactions record payments against it.
type LineItemKind string

const (
	KindDiscount    LineItemKind = "DISCOUNT"
	KindCharge      LineItemKind = "CHARGE"
	KindArrear      LineItemKind = "ARREAR"
	KindTransaction LineItemKind = "TRANSACTION"
)

// LineItem is one atomic financial adjustment owned by exactly one
// enrollment fee. Line items are never physically deleted; removal sets the
// soft-delete fields and excludes the item from recomputation.
type LineItem struct {
	ItemID         string          `json:"itemID"` // Primary Key (UUID)
	FeeID          string          `json:"feeID"`  // FK -> enrollment_fees.fee_id
	Kind           LineItemKind    `json:"kind"`
	Amount         decimal.Decimal `json:"amount"` // Always > 0
	Reason         string          `json:"reason"`
	DiscountTypeID string          `json:"discountTypeID,omitempty"` // Discounts only
	ApprovedBy     string          `json:"approvedBy,omitempty"`     // Discounts only
	VoucherNo      string          `json:"voucherNo,omitempty"`      // Transactions only, external payment voucher
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
	DeletedBy      string          `json:"deletedBy,omitempty"`
	AuditFields
}

// Active reports whether the item participates in balance recomputation.
func (li *LineItem) Active() bool {
	return li.DeletedAt == nil
}

// LineItemSet groups the active line items of one fee by kind, as loaded
// for a recomputation.
type LineItemSet struct {
	Discounts    []LineItem
	Charges      []LineItem
	Arrears      []LineItem
	Transactions []LineItem
}

// ByKind returns the slice for the given kind.
func (s *LineItemSet) ByKind(kind LineItemKind) []LineItem {
	switch kind {
	case KindDiscount:
		return s.Discounts
	case KindCharge:
		return s.Charges
	case KindArrear:
		return s.Arrears
	case KindTransaction:
		return s.Transactions
	}
	return nil
}

// Add appends an item to the slice matching its kind.
func (s *LineItemSet) Add(item LineItem) {
	switch item.Kind {
	case KindDiscount:
		s.Discounts = append(s.Discounts, item)
	case KindCharge:
		s.Charges = append(s.Charges, item)
	case KindArrear:
		s.Arrears = append(s.Arrears, item)
	case KindTransaction:
		s.Transactions = append(s.Transactions, item)
	}
}

// SumAmounts returns the total amount of the given line items.
func SumAmounts(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
