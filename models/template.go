package models

import "time"

// MaxDayOffset bounds a template item's relative due-date offset.
const MaxDayOffset = 180

// DiligenceTemplate is a reusable named set of task blueprints applicable to
// any deal. A template exclusively owns its items: deleting the template
// deletes them.
type DiligenceTemplate struct {
	// ID is a unique identifier for the template, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// Name is the template's name, required.
	Name string `gorm:"not null" json:"name"`

	Description string `json:"description"`

	// IsDefault marks the template preselected when creating a deal. The model
	// does not hard-enforce uniqueness; selection takes the most recent.
	IsDefault bool `gorm:"default:false" json:"is_default"`

	// OwnerID references the user who authored the template.
	OwnerID string `json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateItem is one task blueprint row. DayOffset is relative to a deal's
// start date and has no meaning without one.
type TemplateItem struct {
	// ID is a unique identifier for the item, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// TemplateID references the owning template.
	TemplateID string `gorm:"type:uuid;not null;index" json:"template_id"`

	// Title is required and non-empty; copied verbatim onto generated tasks.
	Title string `gorm:"not null" json:"title"`

	Description string `json:"description"`

	// Phase and Category are taxonomy tokens validated at authoring time.
	Phase    string `json:"phase"`
	Category string `json:"category"`

	// DayOffset is the number of days after the deal start date at which the
	// generated task falls due. Range 0..MaxDayOffset.
	DayOffset int `gorm:"not null;default:0" json:"day_offset"`

	// DefaultAssignee is copied onto generated tasks; empty means unassigned.
	DefaultAssignee string `json:"default_assignee"`

	CreatedAt time.Time `json:"created_at"`
}
