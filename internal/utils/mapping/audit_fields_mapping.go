package mapping

import (
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

// ToModelAuditFields converts domain audit fields to the model representation.
func ToModelAuditFields(af domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     af.CreatedAt,
		CreatedBy:     af.CreatedBy,
		LastUpdatedAt: af.LastUpdatedAt,
		LastUpdatedBy: af.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts model audit fields to the domain representation.
func ToDomainAuditFields(af models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     af.CreatedAt,
		CreatedBy:     af.CreatedBy,
		LastUpdatedAt: af.LastUpdatedAt,
		LastUpdatedBy: af.LastUpdatedBy,
	}
}
