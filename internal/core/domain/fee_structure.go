package domain

import (
	"github.com/shopspring/decimal"
)

// FeeComponentKind classifies a component of a fee structure.
type FeeComponentKind string

const (
	ComponentTuition  FeeComponentKind = "TUITION"
	ComponentLevy     FeeComponentKind = "LEVY"
	ComponentOptional FeeComponentKind = "OPTIONAL"
)

// FeeComponent is one named part of a fee structure. Components are
// validated at the boundary; amounts are always positive.
type FeeComponent struct {
	Name        string           `json:"name"`
	Kind        FeeComponentKind `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description,omitempty"`
}

// FeeStructure defines the composition of a fee for an academic term. The
// base amount of every fee assigned from it is the sum of its components.
type FeeStructure struct {
	StructureID string         `json:"structureID"` // Primary Key (UUID)
	Name        string         `json:"name"`
	Term        string         `json:"term"` // e.g. "2026-T1"
	Components  []FeeComponent `json:"components"`
	IsActive    bool           `json:"isActive"`
	AuditFields
}

// BaseAmount returns the sum of the structure's component amounts.
func (fs *FeeStructure) BaseAmount() decimal.Decimal {
	total := decimal.Zero
	for _, c := range fs.Components {
		total = total.Add(c.Amount)
	}
	return total
}
