package mapping

import (
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

// ToModelUser converts a domain user to its database model.
func ToModelUser(user domain.User) models.User {
	return models.User{
		UserID:             user.UserID,
		Username:           user.Username,
		Name:               user.Name,
		PasswordHash:       user.PasswordHash,
		RefreshTokenHash:   user.RefreshTokenHash,
		RefreshTokenExpiry: user.RefreshTokenExpiry,
		DisabledAt:         user.DisabledAt,
		AuditFields:        ToModelAuditFields(user.AuditFields),
	}
}

// ToDomainUser converts a database model to the domain user.
func ToDomainUser(user models.User) domain.User {
	return domain.User{
		UserID:             user.UserID,
		Username:           user.Username,
		Name:               user.Name,
		PasswordHash:       user.PasswordHash,
		RefreshTokenHash:   user.RefreshTokenHash,
		RefreshTokenExpiry: user.RefreshTokenExpiry,
		DisabledAt:         user.DisabledAt,
		AuditFields:        ToDomainAuditFields(user.AuditFields),
	}
}
