package models

import "time"

// Task is one diligence checklist entry belonging to exactly one deal.
// Phase, Category and Status are taxonomy tokens; custom tokens removed from
// the taxonomy later stay valid on existing tasks.
type Task struct {
	// ID is a unique identifier for the task, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// DealID references the owning deal.
	DealID string `gorm:"type:uuid;not null;index" json:"deal_id"`

	// Title is required and non-empty.
	Title string `gorm:"not null" json:"title"`

	Description string `json:"description"`

	// Phase and Category are taxonomy tokens (built-in or custom).
	Phase    string `json:"phase"`
	Category string `json:"category"`

	// Status is a taxonomy token; new tasks start at 'not_started'.
	Status string `gorm:"not null;default:'not_started'" json:"status"`

	// DueDate is nullable: a task created for a deal without a start date has
	// no computable due date, which is valid.
	DueDate *time.Time `gorm:"type:date" json:"due_date"`

	// AssignedTo is an optional owner reference; empty means unassigned.
	AssignedTo string `json:"assigned_to"`

	// CompletedAt is set if and only if Status is 'completed'.
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
