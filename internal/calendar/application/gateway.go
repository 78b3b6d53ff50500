package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
	"github.com/tetherhq/tether/internal/calendar/domain"
)

// RegistryGateway implements the availability engine's CalendarGateway on top
// of the connected-calendar repository and the provider registry. Connection
// questions are answered from the repository; busy data comes from the
// provider registered for the connection's type.
type RegistryGateway struct {
	calendars domain.ConnectedCalendarRepository
	providers *ProviderRegistry
	logger    *slog.Logger
}

// NewRegistryGateway creates a gateway over the given repository and registry.
func NewRegistryGateway(calendars domain.ConnectedCalendarRepository, providers *ProviderRegistry, logger *slog.Logger) *RegistryGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistryGateway{
		calendars: calendars,
		providers: providers,
		logger:    logger,
	}
}

// IsConnected reports whether the participant has an enabled primary calendar
// with a registered provider.
func (g *RegistryGateway) IsConnected(ctx context.Context, participantID uuid.UUID) (bool, error) {
	cal, err := g.calendars.FindPrimaryByUser(ctx, participantID)
	if err != nil {
		return false, fmt.Errorf("primary calendar lookup: %w", err)
	}
	if cal == nil {
		return false, nil
	}
	return g.providers.HasProvider(cal.Provider()), nil
}

// PrimaryCalendarID returns the participant's primary calendar ID, or ""
// when none is designated.
func (g *RegistryGateway) PrimaryCalendarID(ctx context.Context, participantID uuid.UUID) (string, error) {
	cal, err := g.calendars.FindPrimaryByUser(ctx, participantID)
	if err != nil {
		return "", fmt.Errorf("primary calendar lookup: %w", err)
	}
	if cal == nil {
		return "", nil
	}
	return cal.CalendarID(), nil
}

// BusyIntervals fetches the participant's busy intervals from the provider
// behind the primary connection.
func (g *RegistryGateway) BusyIntervals(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityDomain.Interval, error) {
	cal, provider, err := g.resolve(ctx, participantID, calendarID)
	if err != nil {
		return nil, err
	}
	return provider.BusyIntervals(ctx, cal, start, end)
}

// Events fetches the participant's events from the provider behind the
// primary connection.
func (g *RegistryGateway) Events(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityApp.CalendarEvent, error) {
	cal, provider, err := g.resolve(ctx, participantID, calendarID)
	if err != nil {
		return nil, err
	}
	return provider.Events(ctx, cal, start, end)
}

func (g *RegistryGateway) resolve(ctx context.Context, participantID uuid.UUID, calendarID string) (*domain.ConnectedCalendar, BusyProvider, error) {
	cal, err := g.calendars.FindPrimaryByUser(ctx, participantID)
	if err != nil {
		return nil, nil, fmt.Errorf("primary calendar lookup: %w", err)
	}
	if cal == nil {
		return nil, nil, fmt.Errorf("no connected calendar for participant %s", participantID)
	}
	if calendarID != "" && cal.CalendarID() != calendarID {
		g.logger.Debug("requested calendar differs from primary, using primary",
			"participant_id", participantID.String(),
			"requested", calendarID,
			"primary", cal.CalendarID(),
		)
	}

	provider, err := g.providers.Provider(cal.Provider())
	if err != nil {
		return nil, nil, err
	}
	return cal, provider, nil
}
