package entities

import "time"

// AuditAction is the kind of mutation an audit record describes.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// Snapshot is a structured key/value capture of entity state.
type Snapshot map[string]interface{}

// AuditRecord is one immutable record of a create/update/delete. Create
// records carry no previous snapshot, delete records no new snapshot. The
// application never updates or deletes audit records.
type AuditRecord struct {
	ID           int64       `json:"id"`
	Action       AuditAction `json:"action"`
	EntityType   string      `json:"entityType"`
	EntityID     int64       `json:"entityId"`
	UserID       int64       `json:"userId"`
	PreviousData Snapshot    `json:"previousData,omitempty"`
	NewData      Snapshot    `json:"newData,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AuditFilter narrows an audit query.
type AuditFilter struct {
	EntityType string
	EntityID   *int64
	UserID     *int64
	From       *time.Time
	To         *time.Time
}
