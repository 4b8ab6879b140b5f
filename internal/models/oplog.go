package models

import "time"

// Operation log actions.
const (
	ActionCreate    = "CREATE"
	ActionUpdate    = "UPDATE"
	ActionDelete    = "DELETE"
	ActionAddTag    = "ADD_TAG"
	ActionRemoveTag = "REMOVE_TAG"
)

// OperationLog is one append-only audit record. AccountID is nil when the
// referenced account has since been deleted.
type OperationLog struct {
	ID        string
	AccountID *string
	Action    string
	Details   *string
	CreatedAt time.Time
}
