package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionCreated = "created"
	AuditActionUpdated = "updated"
	AuditActionDeleted = "deleted"
	AuditActionLogin   = "login"
)

// Audited resource names.
const (
	AuditResourceStudent = "student"
	AuditResourceRecord  = "record"
	AuditResourceUser    = "user"
	AuditResourceKlas    = "klas"
)

// AuditLog represents an audit trail record. Old and new values hold
// JSON snapshots so destructive changes can be reverted.
type AuditLog struct {
	ID         string     `db:"id" json:"id"`
	UserID     *string    `db:"user_id" json:"user_id,omitempty"`
	Username   string     `db:"username" json:"username"`
	Action     string     `db:"action" json:"action"`
	Resource   string     `db:"resource" json:"resource"`
	ResourceID *string    `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte     `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte     `db:"new_values" json:"new_values,omitempty"`
	Reverted   bool       `db:"reverted" json:"reverted"`
	RevertedAt *time.Time `db:"reverted_at" json:"reverted_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// AuditFilter limits audit listings.
type AuditFilter struct {
	Resource string
	Action   string
	Limit    int
}
