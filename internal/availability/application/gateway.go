package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/availability/domain"
)

// CalendarEvent is an external calendar event as reported by a provider.
type CalendarEvent struct {
	ID    string
	Label string
	Start time.Time
	End   time.Time
}

// CalendarGateway is the external calendar collaborator. Implementations may
// fail with auth or network errors; callers isolate those failures per
// participant and degrade instead of aborting.
type CalendarGateway interface {
	// IsConnected reports whether the participant has any connected calendar.
	IsConnected(ctx context.Context, participantID uuid.UUID) (bool, error)

	// PrimaryCalendarID returns the participant's primary calendar ID, or ""
	// when none is designated.
	PrimaryCalendarID(ctx context.Context, participantID uuid.UUID) (string, error)

	// BusyIntervals returns the participant's busy intervals within the window.
	BusyIntervals(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]domain.Interval, error)

	// Events returns events overlapping the window. Used by the conflict check.
	Events(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]CalendarEvent, error)
}
