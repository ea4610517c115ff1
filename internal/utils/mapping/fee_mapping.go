package mapping

import (
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

// ToModelEnrollmentFee converts a domain fee to its database model.
func ToModelEnrollmentFee(fee domain.EnrollmentFee) models.EnrollmentFee {
	return models.EnrollmentFee{
		FeeID:            fee.FeeID,
		EnrollmentID:     fee.EnrollmentID,
		StudentID:        fee.StudentID,
		StructureID:      fee.StructureID,
		BaseAmount:       fee.BaseAmount,
		DiscountedAmount: fee.DiscountedAmount,
		FinalAmount:      fee.FinalAmount,
		PaymentStatus:    models.PaymentStatus(fee.PaymentStatus),
		Version:          fee.Version,
		AuditFields:      ToModelAuditFields(fee.AuditFields),
	}
}

// ToDomainEnrollmentFee converts a database model to the domain fee.
func ToDomainEnrollmentFee(fee models.EnrollmentFee) domain.EnrollmentFee {
	return domain.EnrollmentFee{
		FeeID:            fee.FeeID,
		EnrollmentID:     fee.EnrollmentID,
		StudentID:        fee.StudentID,
		StructureID:      fee.StructureID,
		BaseAmount:       fee.BaseAmount,
		DiscountedAmount: fee.DiscountedAmount,
		FinalAmount:      fee.FinalAmount,
		PaymentStatus:    domain.PaymentStatus(fee.PaymentStatus),
		Version:          fee.Version,
		AuditFields:      ToDomainAuditFields(fee.AuditFields),
	}
}
