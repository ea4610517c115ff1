package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// Snapshot holds the derived balance fields of an enrollment fee after a
// recomputation.
type Snapshot struct {
	DiscountedAmount decimal.Decimal
	FinalAmount      decimal.Decimal
	TotalPaid        decimal.Decimal
	PaymentStatus    domain.PaymentStatus
}

// Recalculate recomputes an enrollment fee's derived amounts and payment
// status from its base amount and current set of active line items.
//
// It is a pure function: output depends only on the inputs and calling it
// twice with the same inputs yields the same snapshot. The discounted
// amount is clamped at zero, but the add-discount path must reject any
// discount that would push the active discount total past the base amount
// before this function ever sees such a state.
//
// The WAIVED status is administrative and never produced here; callers
// owning a WAIVED fee must preserve that status themselves.
func Recalculate(baseAmount decimal.Decimal, discounts, charges, arrears, transactions []domain.LineItem) Snapshot {
	discounted := baseAmount.Sub(domain.SumAmounts(discounts))
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}

	final := discounted.
		Add(domain.SumAmounts(charges)).
		Add(domain.SumAmounts(arrears))

	paid := domain.SumAmounts(transactions)

	status := domain.PaymentPending
	switch {
	case paid.GreaterThanOrEqual(final):
		status = domain.PaymentPaid
	case paid.GreaterThan(decimal.Zero):
		status = domain.PaymentPartial
	}

	return Snapshot{
		DiscountedAmount: discounted,
		FinalAmount:      final,
		TotalPaid:        paid,
		PaymentStatus:    status,
	}
}

// RecalculateSet is a convenience wrapper over Recalculate for a grouped
// line-item set.
func RecalculateSet(baseAmount decimal.Decimal, set domain.LineItemSet) Snapshot {
	return Recalculate(baseAmount, set.Discounts, set.Charges, set.Arrears, set.Transactions)
}
