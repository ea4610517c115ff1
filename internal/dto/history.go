package dto

import (
	"time"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
)

// ListHistoryParams holds pagination parameters for the history read path.
type ListHistoryParams struct {
	Limit     int
	NextToken *string
}

// HistoryEntryResponse is the API representation of one audit record.
type HistoryEntryResponse struct {
	HistoryID string                `json:"historyID"`
	FeeID     string                `json:"feeID"`
	Action    string                `json:"action"`
	Details   domain.HistoryDetails `json:"details"`
	ActorID   string                `json:"actorID"`
	CreatedAt time.Time             `json:"createdAt"`
}

// ListHistoryResponse is a page of audit records, newest first.
type ListHistoryResponse struct {
	Entries   []HistoryEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToHistoryEntryResponse converts a domain history entry.
func ToHistoryEntryResponse(entry *domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		HistoryID: entry.HistoryID,
		FeeID:     entry.FeeID,
		Action:    string(entry.Action),
		Details:   entry.Details,
		ActorID:   entry.ActorID,
		CreatedAt: entry.CreatedAt,
	}
}
