package services

// ServiceContainer holds instances of all the application services. It is
// the single entry point handlers use to reach service functionality.
type ServiceContainer struct {
	Fee          FeeSvcFacade
	History      HistorySvcFacade
	Structure    FeeStructureSvcFacade
	DiscountType DiscountTypeSvcFacade
	User         UserSvcFacade
	Token        TokenSvcFacade
}
