package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/utils/accounting"
)

func items(kind domain.LineItemKind, amounts ...int64) []domain.LineItem {
	result := make([]domain.LineItem, len(amounts))
	for i, a := range amounts {
		result[i] = domain.LineItem{Kind: kind, Amount: decimal.NewFromInt(a)}
	}
	return result
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name           string
		base           int64
		discounts      []domain.LineItem
		charges        []domain.LineItem
		arrears        []domain.LineItem
		transactions   []domain.LineItem
		wantDiscounted int64
		wantFinal      int64
		wantStatus     domain.PaymentStatus
	}{
		{
			name:           "no line items",
			base:           1000,
			wantDiscounted: 1000,
			wantFinal:      1000,
			wantStatus:     domain.PaymentPending,
		},
		{
			name:           "single discount reduces both derived amounts",
			base:           1000,
			discounts:      items(domain.KindDiscount, 200),
			wantDiscounted: 800,
			wantFinal:      800,
			wantStatus:     domain.PaymentPending,
		},
		{
			name:           "full payment settles the fee",
			base:           1000,
			discounts:      items(domain.KindDiscount, 200),
			transactions:   items(domain.KindTransaction, 800),
			wantDiscounted: 800,
			wantFinal:      800,
			wantStatus:     domain.PaymentPaid,
		},
		{
			name:           "charge raises final amount only",
			base:           1000,
			discounts:      items(domain.KindDiscount, 200),
			charges:        items(domain.KindCharge, 100),
			wantDiscounted: 800,
			wantFinal:      900,
			wantStatus:     domain.PaymentPending,
		},
		{
			name:           "arrear plus partial payment",
			base:           1000,
			discounts:      items(domain.KindDiscount, 200),
			arrears:        items(domain.KindArrear, 50),
			transactions:   items(domain.KindTransaction, 400),
			wantDiscounted: 800,
			wantFinal:      850,
			wantStatus:     domain.PaymentPartial,
		},
		{
			name:           "overpayment still reports paid",
			base:           500,
			transactions:   items(domain.KindTransaction, 400, 200),
			wantDiscounted: 500,
			wantFinal:      500,
			wantStatus:     domain.PaymentPaid,
		},
		{
			name:           "discounts exceeding base clamp at zero",
			base:           500,
			discounts:      items(domain.KindDiscount, 300, 300),
			wantDiscounted: 0,
			wantFinal:      0,
			wantStatus:     domain.PaymentPaid, // zero owed, zero paid
		},
		{
			name:           "multiple items of every kind",
			base:           2000,
			discounts:      items(domain.KindDiscount, 100, 150),
			charges:        items(domain.KindCharge, 50, 25),
			arrears:        items(domain.KindArrear, 75),
			transactions:   items(domain.KindTransaction, 500, 500),
			wantDiscounted: 1750,
			wantFinal:      1900,
			wantStatus:     domain.PaymentPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.Recalculate(decimal.NewFromInt(tt.base), tt.discounts, tt.charges, tt.arrears, tt.transactions)

			assert.True(t, got.DiscountedAmount.Equal(decimal.NewFromInt(tt.wantDiscounted)),
				"discounted amount: got %s, want %d", got.DiscountedAmount, tt.wantDiscounted)
			assert.True(t, got.FinalAmount.Equal(decimal.NewFromInt(tt.wantFinal)),
				"final amount: got %s, want %d", got.FinalAmount, tt.wantFinal)
			assert.Equal(t, tt.wantStatus, got.PaymentStatus)
		})
	}
}

func TestRecalculateIsDeterministic(t *testing.T) {
	base := decimal.NewFromInt(1234)
	discounts := items(domain.KindDiscount, 111)
	charges := items(domain.KindCharge, 22)
	arrears := items(domain.KindArrear, 3)
	transactions := items(domain.KindTransaction, 600)

	first := accounting.Recalculate(base, discounts, charges, arrears, transactions)
	second := accounting.Recalculate(base, discounts, charges, arrears, transactions)

	assert.True(t, first.DiscountedAmount.Equal(second.DiscountedAmount))
	assert.True(t, first.FinalAmount.Equal(second.FinalAmount))
	assert.True(t, first.TotalPaid.Equal(second.TotalPaid))
	assert.Equal(t, first.PaymentStatus, second.PaymentStatus)
}

func TestRecalculateNeverDerivesWaived(t *testing.T) {
	// WAIVED is an administrative status; no combination of amounts
	// produces it.
	got := accounting.Recalculate(decimal.NewFromInt(100), nil, nil, nil, items(domain.KindTransaction, 100))
	assert.NotEqual(t, domain.PaymentWaived, got.PaymentStatus)
}

func TestRecalculateSetMatchesRecalculate(t *testing.T) {
	set := domain.LineItemSet{
		Discounts:    items(domain.KindDiscount, 200),
		Charges:      items(domain.KindCharge, 100),
		Transactions: items(domain.KindTransaction, 300),
	}

	fromSet := accounting.RecalculateSet(decimal.NewFromInt(1000), set)
	direct := accounting.Recalculate(decimal.NewFromInt(1000), set.Discounts, set.Charges, set.Arrears, set.Transactions)

	assert.Equal(t, direct, fromSet)
}
