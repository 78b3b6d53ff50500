package domain

import (
	"errors"
	"time"
)

var ErrInvalidWorkingHours = errors.New("working hours end must be after start")

// WorkingHours is the daily window within which free slots may be offered.
// Start and End are offsets from midnight, local to the reference timezone.
type WorkingHours struct {
	Start time.Duration
	End   time.Duration
}

// DefaultWorkingHours returns the canonical 09:00-21:00 window.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		Start: 9 * time.Hour,
		End:   21 * time.Hour,
	}
}

// NewWorkingHours creates a validated working-hours window.
func NewWorkingHours(start, end time.Duration) (WorkingHours, error) {
	if end <= start || start < 0 || end > 24*time.Hour {
		return WorkingHours{}, ErrInvalidWorkingHours
	}
	return WorkingHours{Start: start, End: end}, nil
}

// WindowFor returns the working-hours bounds for the calendar day containing t.
func (w WorkingHours) WindowFor(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.Add(w.Start), day.Add(w.End)
}
