package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

// HistoryRecorderSvc is the append-only write side of the history journal.
// Record runs on the caller's transaction so the audit entry commits
// atomically with the mutation it describes.
type HistoryRecorderSvc interface {
	RecordInTx(ctx context.Context, tx pgx.Tx, feeID string, action domain.HistoryAction, details domain.HistoryDetails, actorID string) error
}

// HistorySvcFacade adds the read path to the recorder.
type HistorySvcFacade interface {
	HistoryRecorderSvc
	GetHistory(ctx context.Context, feeID string, params dto.ListHistoryParams) (*dto.ListHistoryResponse, error)
}
