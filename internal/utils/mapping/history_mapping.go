package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	"github.com/skolarity/fee_ledger_app/internal/models"
)

// ToModelHistoryEntry converts a domain history entry to its database
// model, marshaling the details into the JSONB payload.
func ToModelHistoryEntry(entry domain.HistoryEntry) (models.HistoryEntry, error) {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to marshal history details for fee %s: %w", entry.FeeID, err)
	}
	return models.HistoryEntry{
		HistoryID: entry.HistoryID,
		FeeID:     entry.FeeID,
		Action:    string(entry.Action),
		Details:   details,
		ActorID:   entry.ActorID,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// ToDomainHistoryEntry converts a database model back to the domain entry.
func ToDomainHistoryEntry(entry models.HistoryEntry) (domain.HistoryEntry, error) {
	var details domain.HistoryDetails
	if len(entry.Details) > 0 {
		if err := json.Unmarshal(entry.Details, &details); err != nil {
			return domain.HistoryEntry{}, fmt.Errorf("failed to unmarshal history details for entry %s: %w", entry.HistoryID, err)
		}
	}
	return domain.HistoryEntry{
		HistoryID: entry.HistoryID,
		FeeID:     entry.FeeID,
		Action:    domain.HistoryAction(entry.Action),
		Details:   details,
		ActorID:   entry.ActorID,
		CreatedAt: entry.CreatedAt,
	}, nil
}
