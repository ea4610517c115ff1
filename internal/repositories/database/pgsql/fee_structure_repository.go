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

const feeStructureColumns = `structure_id, name, term, components, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxFeeStructureRepository struct {
	BaseRepository
}

// newPgxFeeStructureRepository creates a new repository for fee structures.
func newPgxFeeStructureRepository(pool *pgxpool.Pool) portsrepo.FeeStructureRepository {
	return &PgxFeeStructureRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeStructureRepository = (*PgxFeeStructureRepository)(nil)

func scanFeeStructure(row rowScanner) (models.FeeStructure, error) {
	var m models.FeeStructure
	err := row.Scan(
		&m.StructureID,
		&m.Name,
		&m.Term,
		&m.Components,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFeeStructure inserts a new fee structure with its JSONB components.
func (r *PgxFeeStructureRepository) SaveFeeStructure(ctx context.Context, fs domain.FeeStructure) error {
	m, err := mapping.ToModelFeeStructure(fs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fee_structures (` + feeStructureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.StructureID,
		m.Name,
		m.Term,
		m.Components,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to save fee structure %s", m.StructureID))
	}
	return nil
}

// FindFeeStructureByID retrieves a fee structure by its ID.
func (r *PgxFeeStructureRepository) FindFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + ` FROM fee_structures WHERE structure_id = $1;`

	m, err := scanFeeStructure(r.Pool.QueryRow(ctx, query, structureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fee structure with ID %s not found", apperrors.ErrNotFound, structureID)
		}
		return nil, fmt.Errorf("failed to find fee structure %s: %w", structureID, err)
	}

	fs, err := mapping.ToDomainFeeStructure(m)
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// ListFeeStructures retrieves fee structures with limit/offset pagination,
// newest first.
func (r *PgxFeeStructureRepository) ListFeeStructures(ctx context.Context, limit int, offset int) ([]domain.FeeStructure, error) {
	query := `SELECT ` + feeStructureColumns + ` FROM fee_structures ORDER BY created_at DESC, structure_id DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee structures: %w", err)
	}
	defer rows.Close()

	var structures []domain.FeeStructure
	for rows.Next() {
		m, err := scanFeeStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee structure row: %w", err)
		}
		fs, err := mapping.ToDomainFeeStructure(m)
		if err != nil {
			return nil, err
		}
		structures = append(structures, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee structure rows: %w", err)
	}
	return structures, nil
}
