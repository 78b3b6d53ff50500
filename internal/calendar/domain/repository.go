package domain

import (
	"context"

	"github.com/google/uuid"
)

// ConnectedCalendarRepository persists calendar connections.
type ConnectedCalendarRepository interface {
	// Save persists a connected calendar (create or update).
	Save(ctx context.Context, cal *ConnectedCalendar) error

	// FindByID finds a connected calendar by ID. Returns nil when not found.
	FindByID(ctx context.Context, id uuid.UUID) (*ConnectedCalendar, error)

	// FindByUser finds all connected calendars for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*ConnectedCalendar, error)

	// FindPrimaryByUser finds the user's enabled primary calendar.
	// Returns nil when the user has none.
	FindPrimaryByUser(ctx context.Context, userID uuid.UUID) (*ConnectedCalendar, error)

	// Delete removes a connected calendar.
	Delete(ctx context.Context, id uuid.UUID) error
}
