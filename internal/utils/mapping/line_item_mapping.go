package mapping

import (
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strFromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ToModelLineItem converts a domain line item to its database model.
func ToModelLineItem(item domain.LineItem) models.LineItem {
	return models.LineItem{
		ItemID:         item.ItemID,
		FeeID:          item.FeeID,
		Kind:           models.LineItemKind(item.Kind),
		Amount:         item.Amount,
		Reason:         item.Reason,
		DiscountTypeID: strOrNil(item.DiscountTypeID),
		ApprovedBy:     strOrNil(item.ApprovedBy),
		VoucherNo:      strOrNil(item.VoucherNo),
		DeletedAt:      item.DeletedAt,
		DeletedBy:      strOrNil(item.DeletedBy),
		AuditFields:    ToModelAuditFields(item.AuditFields),
	}
}

// ToDomainLineItem converts a database model to the domain line item.
func ToDomainLineItem(item models.LineItem) domain.LineItem {
	return domain.LineItem{
		ItemID:         item.ItemID,
		FeeID:          item.FeeID,
		Kind:           domain.LineItemKind(item.Kind),
		Amount:         item.Amount,
		Reason:         item.Reason,
		DiscountTypeID: strFromPtr(item.DiscountTypeID),
		ApprovedBy:     strFromPtr(item.ApprovedBy),
		VoucherNo:      strFromPtr(item.VoucherNo),
		DeletedAt:      item.DeletedAt,
		DeletedBy:      strFromPtr(item.DeletedBy),
		AuditFields:    ToDomainAuditFields(item.AuditFields),
	}
}

// ToDomainLineItemSlice converts a slice of models to domain line items.
func ToDomainLineItemSlice(items []models.LineItem) []domain.LineItem {
	result := make([]domain.LineItem, len(items))
	for i, item := range items {
		result[i] = ToDomainLineItem(item)
	}
	return result
}
