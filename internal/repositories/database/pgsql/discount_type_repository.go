package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	"github.com/skolarity/fee_ledger_app/internal/models"
	"github.com/skolarity/fee_ledger_app/internal/utils/mapping"
)

const discountTypeColumns = `discount_type_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxDiscountTypeRepository struct {
	BaseRepository
}

// newPgxDiscountTypeRepository creates a new repository for the discount
// catalog.
func newPgxDiscountTypeRepository(pool *pgxpool.Pool) portsrepo.DiscountTypeRepository {
	return &PgxDiscountTypeRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DiscountTypeRepository = (*PgxDiscountTypeRepository)(nil)

func scanDiscountType(row rowScanner) (models.DiscountType, error) {
	var m models.DiscountType
	err := row.Scan(
		&m.DiscountTypeID,
		&m.Name,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveDiscountType inserts a new discount catalog entry.
func (r *PgxDiscountTypeRepository) SaveDiscountType(ctx context.Context, dt domain.DiscountType) error {
	m := mapping.ToModelDiscountType(dt)

	query := `
		INSERT INTO discount_types (` + discountTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DiscountTypeID,
		m.Name,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to save discount type %s", m.DiscountTypeID))
	}
	return nil
}

// FindDiscountTypeByID retrieves a discount type by its ID.
func (r *PgxDiscountTypeRepository) FindDiscountTypeByID(ctx context.Context, discountTypeID string) (*domain.DiscountType, error) {
	query := `SELECT ` + discountTypeColumns + ` FROM discount_types WHERE discount_type_id = $1;`

	m, err := scanDiscountType(r.Pool.QueryRow(ctx, query, discountTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: discount type with ID %s not found", apperrors.ErrNotFound, discountTypeID)
		}
		return nil, fmt.Errorf("failed to find discount type %s: %w", discountTypeID, err)
	}

	dt := mapping.ToDomainDiscountType(m)
	return &dt, nil
}

// ListDiscountTypes retrieves discount types with limit/offset pagination.
func (r *PgxDiscountTypeRepository) ListDiscountTypes(ctx context.Context, limit int, offset int) ([]domain.DiscountType, error) {
	query := `SELECT ` + discountTypeColumns + ` FROM discount_types ORDER BY name ASC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount types: %w", err)
	}
	defer rows.Close()

	var types []domain.DiscountType
	for rows.Next() {
		m, err := scanDiscountType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount type row: %w", err)
		}
		types = append(types, mapping.ToDomainDiscountType(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount type rows: %w", err)
	}
	return types, nil
}
