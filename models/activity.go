package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is one append-only audit trail entry for a deal. Writes are
// fire-and-forget: a failed append never fails the mutation it describes.
type ActivityLog struct {
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// DealID references the deal the activity belongs to.
	DealID string `gorm:"type:uuid;not null;index" json:"deal_id"`

	// UserID references the acting user; empty for system actions.
	UserID string `json:"user_id"`

	// Action is a short verb phrase, e.g. 'task created from template'.
	Action string `gorm:"not null" json:"action"`

	// EntityType and EntityID identify the affected entity.
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`

	// Details is a JSONB field for structured context (batch id, counts).
	Details datatypes.JSON `json:"details"`

	CreatedAt time.Time `json:"created_at"`
}
