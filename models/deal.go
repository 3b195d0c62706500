package models

import "time"

// ReviewWindowDays is the fixed due-diligence review window. A deal's end
// date is always derived as start date + this many days; the column is
// persisted for querying but the service layer is its only writer.
const ReviewWindowDays = 90

// Deal represents a tracked acquisition or investment opportunity that owns
// a collection of diligence tasks.
type Deal struct {
	// ID is a unique identifier for the deal, stored as a UUID in the database.
	ID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	// Name is the deal's display name, required.
	Name string `gorm:"not null" json:"name"`

	// Status is the deal lifecycle status: 'open', 'active', 'completed' or 'cancelled'.
	Status string `gorm:"not null;default:'open'" json:"status"`

	// StartDate anchors all relative day-offsets. Nullable: a deal without a
	// start date produces tasks without due dates.
	StartDate *time.Time `gorm:"type:date" json:"start_date"`

	// EndDate is derived from StartDate plus the review window whenever
	// StartDate is present; it is never edited independently.
	EndDate *time.Time `gorm:"type:date" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DerivedEndDate computes the end date implied by the deal's start date.
// Returns nil when no start date is set.
func (d *Deal) DerivedEndDate() *time.Time {
	if d.StartDate == nil {
		return nil
	}
	end := d.StartDate.AddDate(0, 0, ReviewWindowDays)
	return &end
}
