package models

import "time"

// HistoryEntry is the database representation of one audit record. Details
// is the JSONB payload as stored; marshaling happens in the mapping layer.
type HistoryEntry struct {
	HistoryID string    `json:"historyID"`
	FeeID     string    `json:"feeID"`
	Action    string    `json:"action"`
	Details   []byte    `json:"details"`
	ActorID   string    `json:"actorID"`
	CreatedAt time.Time `json:"createdAt"`
}
