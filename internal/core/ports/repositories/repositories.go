package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	FeeRepo          FeeRepositoryWithTx
	HistoryRepo      HistoryRepository
	StructureRepo    FeeStructureRepository
	DiscountTypeRepo DiscountTypeRepository
	UserRepo         UserRepository
}
