package models

// FeeStructure is the database representation of a fee structure. The
// components column is JSONB; marshaling happens in the mapping layer.
type FeeStructure struct {
	StructureID string `json:"structureID"`
	Name        string `json:"name"`
	Term        string `json:"term"`
	Components  []byte `json:"components"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// DiscountType is the database representation of a discount catalog entry.
type DiscountType struct {
	DiscountTypeID string `json:"discountTypeID"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}
