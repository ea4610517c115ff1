package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	"github.com/skolarity/fee_ledger_app/internal/models"
	"github.com/skolarity/fee_ledger_app/internal/utils/mapping"
	"github.com/skolarity/fee_ledger_app/internal/utils/pagination"
)

const historyColumns = `history_id, fee_id, action, details, actor_id, created_at`

type PgxHistoryRepository struct {
	BaseRepository
}

// newPgxHistoryRepository creates a new repository for the history journal.
func newPgxHistoryRepository(pool *pgxpool.Pool) portsrepo.HistoryRepository {
	return &PgxHistoryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.HistoryRepository = (*PgxHistoryRepository)(nil)

// AppendHistoryInTx writes one audit entry on the caller's transaction.
// The table has no update or delete path; rows only ever accumulate.
func (r *PgxHistoryRepository) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.HistoryEntry) error {
	m, err := mapping.ToModelHistoryEntry(entry)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO fee_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, query,
		m.HistoryID,
		m.FeeID,
		m.Action,
		m.Details,
		m.ActorID,
		m.CreatedAt,
	)
	if err != nil {
		return translatePgError(err, fmt.Sprintf("failed to append history entry %s", m.HistoryID))
	}
	return nil
}

// ListHistoryByFeeID returns audit entries for a fee, newest first, using
// keyset pagination on (created_at, history_id).
func (r *PgxHistoryRepository) ListHistoryByFeeID(ctx context.Context, feeID string, limit int, nextToken *string) ([]domain.HistoryEntry, *string, error) {
	query := `SELECT ` + historyColumns + ` FROM fee_history WHERE fee_id = $1`
	args := []any{feeID}

	if nextToken != nil && *nextToken != "" {
		createdAt, historyID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, history_id) < ($2, $3)`
		args = append(args, createdAt, historyID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, history_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list history for fee %s: %w", feeID, err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var m models.HistoryEntry
		if err := rows.Scan(&m.HistoryID, &m.FeeID, &m.Action, &m.Details, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry, err := mapping.ToDomainHistoryEntry(m)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.HistoryID)
		token = &t
	}
	return entries, token, nil
}
