package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaxonomySetting persists the custom value set of one taxonomy namespace
// (phase, category or status). Values is a JSON array of string tokens; the
// whole array is read and rewritten on every mutation (get-all / set-all).
type TaxonomySetting struct {
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// Namespace is one of 'phase', 'category', 'status'. One row per namespace.
	Namespace string `gorm:"not null;uniqueIndex" json:"namespace"`

	// Values holds the custom tokens as a JSON array.
	Values datatypes.JSON `json:"values"`

	UpdatedAt time.Time `json:"updated_at"`
}
