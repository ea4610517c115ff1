package services

import (
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/platform/config"
)

// NewServiceContainer wires all application services with their repository
// dependencies.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	historySvc := NewHistoryService(repos.HistoryRepo, repos.FeeRepo)
	feeSvc := NewFeeService(repos.FeeRepo, repos.StructureRepo, repos.DiscountTypeRepo, historySvc)
	structureSvc := NewFeeStructureService(repos.StructureRepo)
	discountTypeSvc := NewDiscountTypeService(repos.DiscountTypeRepo)
	userSvc := NewUserService(repos.UserRepo)
	tokenSvc := NewTokenService(userSvc, cfg.JWTSecret, cfg.JWTExpiryDuration)

	return &portssvc.ServiceContainer{
		Fee:          feeSvc,
		History:      historySvc,
		Structure:    structureSvc,
		DiscountType: discountTypeSvc,
		User:         userSvc,
		Token:        tokenSvc,
	}
}
