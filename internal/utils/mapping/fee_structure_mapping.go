package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

// ToModelFeeStructure converts a domain fee structure to its database
// model, marshaling the components into the JSONB payload.
func ToModelFeeStructure(fs domain.FeeStructure) (models.FeeStructure, error) {
	components, err := json.Marshal(fs.Components)
	if err != nil {
		return models.FeeStructure{}, fmt.Errorf("failed to marshal components for structure %s: %w", fs.StructureID, err)
	}
	return models.FeeStructure{
		StructureID: fs.StructureID,
		Name:        fs.Name,
		Term:        fs.Term,
		Components:  components,
		IsActive:    fs.IsActive,
		AuditFields: ToModelAuditFields(fs.AuditFields),
	}, nil
}

// ToDomainFeeStructure converts a database model back to the domain
// structure, unmarshaling and so re-validating the component payload shape.
func ToDomainFeeStructure(fs models.FeeStructure) (domain.FeeStructure, error) {
	var components []domain.FeeComponent
	if len(fs.Components) > 0 {
		if err := json.Unmarshal(fs.Components, &components); err != nil {
			return domain.FeeStructure{}, fmt.Errorf("failed to unmarshal components for structure %s: %w", fs.StructureID, err)
		}
	}
	return domain.FeeStructure{
		StructureID: fs.StructureID,
		Name:        fs.Name,
		Term:        fs.Term,
		Components:  components,
		IsActive:    fs.IsActive,
		AuditFields: ToDomainAuditFields(fs.AuditFields),
	}, nil
}

// ToModelDiscountType converts a domain discount type to its database model.
func ToModelDiscountType(dt domain.DiscountType) models.DiscountType {
	return models.DiscountType{
		DiscountTypeID: dt.DiscountTypeID,
		Name:           dt.Name,
		Description:    dt.Description,
		IsActive:       dt.IsActive,
		AuditFields:    ToModelAuditFields(dt.AuditFields),
	}
}

// ToDomainDiscountType converts a database model to the domain discount type.
func ToDomainDiscountType(dt models.DiscountType) domain.DiscountType {
	return domain.DiscountType{
		DiscountTypeID: dt.DiscountTypeID,
		Name:           dt.Name,
		Description:    dt.Description,
		IsActive:       dt.IsActive,
		AuditFields:    ToDomainAuditFields(dt.AuditFields),
	}
}
