package domain

// DiscountType is a catalog entry every discount line item must reference
// (sibling discount, staff child, bursary, ...).
type DiscountType struct {
	DiscountTypeID string `json:"discountTypeID"` // Primary Key (UUID)
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}
