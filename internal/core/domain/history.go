package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryAction tags what kind of mutation a history entry records.
type HistoryAction string

const (
	ActionFeeAssigned      HistoryAction = "FEE_ASSIGNED"
	ActionDiscountAdded    HistoryAction = "DISCOUNT_ADDED"
	ActionDiscountRemoved  HistoryAction = "DISCOUNT_REMOVED"
	ActionChargeAdded      HistoryAction = "CHARGE_ADDED"
	ActionChargeRemoved    HistoryAction = "CHARGE_REMOVED"
	ActionArrearAdded      HistoryAction = "ARREAR_ADDED"
	ActionArrearRemoved    HistoryAction = "ARREAR_REMOVED"
	ActionTransactionAdded HistoryAction = "TRANSACTION_ADDED"
	ActionFeeUpdated       HistoryAction = "FEE_UPDATED"
	ActionFeeWaived        HistoryAction = "FEE_WAIVED"
)

// HistoryDetails is the structured before/after context captured with every
// mutation. Only the fields relevant to the action are populated.
type HistoryDetails struct {
	ItemID           string           `json:"itemID,omitempty"`
	ItemKind         LineItemKind     `json:"itemKind,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	VoucherNo        string           `json:"voucherNo,omitempty"`
	OldStructureID   string           `json:"oldStructureID,omitempty"`
	NewStructureID   string           `json:"newStructureID,omitempty"`
	OldBaseAmount    *decimal.Decimal `json:"oldBaseAmount,omitempty"`
	NewBaseAmount    *decimal.Decimal `json:"newBaseAmount,omitempty"`
	OldFinalAmount   *decimal.Decimal `json:"oldFinalAmount,omitempty"`
	NewFinalAmount   *decimal.Decimal `json:"newFinalAmount,omitempty"`
	OldPaymentStatus PaymentStatus    `json:"oldPaymentStatus,omitempty"`
	NewPaymentStatus PaymentStatus    `json:"newPaymentStatus,omitempty"`
}

// HistoryEntry is one immutable audit record of a fee mutation. Entries
// reference their fee by identifier only and survive fee archival; they are
// never updated or deleted.
type HistoryEntry struct {
	HistoryID string         `json:"historyID"` // Primary Key (UUID)
	FeeID     string         `json:"feeID"`     // Weak reference, no FK cascade
	Action    HistoryAction  `json:"action"`
	Details   HistoryDetails `json:"details"`
	ActorID   string         `json:"actorID"`
	CreatedAt time.Time      `json:"createdAt"`
}
