package services

import "time"

// ResolveDueDate maps a deal start date and a relative day offset to a
// concrete due date. A nil start date yields a nil due date, which is a
// valid "no due date" state everywhere, not an error.
//
// The addition is calendar-day arithmetic on a date-only value: the result
// keeps the start date's location and truncates the clock to midnight, so
// adding whole days never drifts across timezones. The input is never
// mutated.
func ResolveDueDate(dealStartDate *time.Time, dayOffset int) *time.Time {
	if dealStartDate == nil {
		return nil
	}
	y, m, d := dealStartDate.Date()
	due := time.Date(y, m, d, 0, 0, 0, 0, dealStartDate.Location()).AddDate(0, 0, dayOffset)
	return &due
}
