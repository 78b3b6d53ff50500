package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/availability/application"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM in 24-hour format")
	ErrInvalidTimeOrder = errors.New("end time of day must be after start time of day")
)

// CheckConflictsQuery asks whether one participant has calendar events
// overlapping an explicit window on a single day. Times are HH:MM, 24-hour.
type CheckConflictsQuery struct {
	ParticipantID  uuid.UUID
	Date           time.Time
	StartTimeOfDay string
	EndTimeOfDay   string
}

// ConflictingEvent is one overlapping calendar event, reported verbatim.
type ConflictingEvent struct {
	ID    string
	Label string
	Start time.Time
	End   time.Time
}

// ConflictResult is the outcome of a conflict check.
type ConflictResult struct {
	HasConflict bool
	Conflicts   []ConflictingEvent
}

// CheckConflictsHandler handles the CheckConflictsQuery. The check is
// advisory: absence of calendar data and gateway failures both report "no
// conflicts" rather than blocking the caller's workflow.
type CheckConflictsHandler struct {
	gateway application.CalendarGateway
	logger  *slog.Logger
}

// NewCheckConflictsHandler creates a new CheckConflictsHandler.
func NewCheckConflictsHandler(gateway application.CalendarGateway, logger *slog.Logger) *CheckConflictsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckConflictsHandler{gateway: gateway, logger: logger}
}

// Handle executes the conflict check.
func (h *CheckConflictsHandler) Handle(ctx context.Context, query CheckConflictsQuery) (*ConflictResult, error) {
	start, err := combineDateAndTime(query.Date, query.StartTimeOfDay)
	if err != nil {
		return nil, ErrInvalidTimeOfDay
	}
	end, err := combineDateAndTime(query.Date, query.EndTimeOfDay)
	if err != nil {
		return nil, ErrInvalidTimeOfDay
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeOrder
	}

	empty := &ConflictResult{HasConflict: false, Conflicts: []ConflictingEvent{}}

	connected, err := h.gateway.IsConnected(ctx, query.ParticipantID)
	if err != nil {
		h.logger.Warn("conflict check connectivity lookup failed, reporting no conflicts",
			"participant_id", query.ParticipantID.String(),
			"error", err,
		)
		return empty, nil
	}
	if !connected {
		// No calendar data is not evidence of conflict.
		return empty, nil
	}

	calendarID, err := h.gateway.PrimaryCalendarID(ctx, query.ParticipantID)
	if err != nil || calendarID == "" {
		if err != nil {
			h.logger.Warn("conflict check calendar lookup failed, reporting no conflicts",
				"participant_id", query.ParticipantID.String(),
				"error", err,
			)
		}
		return empty, nil
	}

	events, err := h.gateway.Events(ctx, query.ParticipantID, calendarID, start, end)
	if err != nil {
		h.logger.Warn("conflict check event fetch failed, reporting no conflicts",
			"participant_id", query.ParticipantID.String(),
			"error", err,
		)
		return empty, nil
	}

	conflicts := make([]ConflictingEvent, 0, len(events))
	for _, event := range events {
		if event.Start.Before(end) && event.End.After(start) {
			conflicts = append(conflicts, ConflictingEvent{
				ID:    event.ID,
				Label: event.Label,
				Start: event.Start,
				End:   event.End,
			})
		}
	}

	return &ConflictResult{
		HasConflict: len(conflicts) > 0,
		Conflicts:   conflicts,
	}, nil
}

// combineDateAndTime anchors an HH:MM time of day onto the given date.
func combineDateAndTime(date time.Time, timeOfDay string) (time.Time, error) {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
