// Package audit records dataset lifecycle events. Events are emitted from
// domain logic and fanned out to a store; delivery is best-effort and must
// never fail the triggering write.
package audit

import "time"

// Event captures one auditable action on a dataset record.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	DatasetID  string    `json:"dataset_id"`
	Country    string    `json:"country"`
	Keydataset string    `json:"keydataset"`
	RequestID  string    `json:"request_id,omitempty"`
}

const (
	EventDatasetCreated  = "dataset_created"
	EventDatasetUpdated  = "dataset_updated"
	EventDatasetReviewed = "dataset_reviewed"
	EventDatasetDeleted  = "dataset_deleted"
	EventUserRegistered  = "user_registered"
	EventUserActivated   = "user_activated"
)
