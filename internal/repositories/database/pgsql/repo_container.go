package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FeeRepo:          newPgxFeeRepository(dbPool),
		HistoryRepo:      newPgxHistoryRepository(dbPool),
		StructureRepo:    newPgxFeeStructureRepository(dbPool),
		DiscountTypeRepo: newPgxDiscountTypeRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
