package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

// historyService owns the append-only audit journal: it writes entries on
// the mutating service's transaction and serves the paginated read path.
type historyService struct {
	BaseService
	historyRepo portsrepo.HistoryRepository
	feeRepo     portsrepo.FeeReader
}

// NewHistoryService creates a new history service.
func NewHistoryService(historyRepo portsrepo.HistoryRepository, feeRepo portsrepo.FeeReader) portssvc.HistorySvcFacade {
	return &historyService{historyRepo: historyRepo, feeRepo: feeRepo}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

// RecordInTx appends one audit entry on the caller's transaction. A failure
// here fails the whole mutation: a fee change without its audit record must
// never commit.
func (s *historyService) RecordInTx(ctx context.Context, tx pgx.Tx, feeID string, action domain.HistoryAction, details domain.HistoryDetails, actorID string) error {
	if actorID == "" {
		return fmt.Errorf("%w: history entries require an actor", apperrors.ErrValidation)
	}

	entry := domain.HistoryEntry{
		HistoryID: uuid.NewString(),
		FeeID:     feeID,
		Action:    action,
		Details:   details,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.historyRepo.AppendHistoryInTx(ctx, tx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append history entry",
			slog.String("fee_id", feeID), slog.String("action", string(action)))
		return err
	}
	return nil
}

// GetHistory returns the fee's audit records newest first with token
// pagination. The fee must exist, but entries outlive the fee row itself.
func (s *historyService) GetHistory(ctx context.Context, feeID string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	if _, err := s.feeRepo.FindFeeByID(ctx, feeID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to verify fee before history read", slog.String("fee_id", feeID))
		}
		return nil, err
	}

	entries, nextToken, err := s.historyRepo.ListHistoryByFeeID(ctx, feeID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fee history", slog.String("fee_id", feeID))
		return nil, err
	}

	resp := &dto.ListHistoryResponse{
		Entries:   make([]dto.HistoryEntryResponse, 0, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToHistoryEntryResponse(&entries[i]))
	}
	return resp, nil
}
