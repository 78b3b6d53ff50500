package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/availability/application/services"
	"github.com/tetherhq/tether/internal/availability/domain"
)

var (
	ErrInvalidWindow     = errors.New("window end must be after window start")
	ErrMinDurationTooLow = errors.New("minimum duration must be at least 15 minutes")
)

const (
	// MinSlotDuration is the smallest slot length a caller may request.
	MinSlotDuration = 15 * time.Minute

	// MaxSuggestions caps the number of ranked slots returned.
	MaxSuggestions = 5
)

// FindAvailabilityQuery contains the parameters for a multi-participant
// availability search.
type FindAvailabilityQuery struct {
	ParticipantIDs []uuid.UUID
	WindowStart    time.Time
	WindowEnd      time.Time
	MinDuration    time.Duration
	WorkingHours   *domain.WorkingHours // nil means the 09:00-21:00 default
	Preferences    *domain.Preferences  // nil means default preferences
}

// AvailabilityResult is the ranked outcome of an availability search. When
// ParticipantsWithCalendarData is zero the slots come from the heuristic
// fallback and should be treated as advisory.
type AvailabilityResult struct {
	Slots                        []domain.RankedSlot
	ParticipantsRequested        int
	ParticipantsWithCalendarData int
	FetchReport                  services.FetchReport
	WindowStart                  time.Time
	WindowEnd                    time.Time
}

// FindAvailabilityHandler handles the FindAvailabilityQuery.
type FindAvailabilityHandler struct {
	aggregator *services.BusyTimeAggregator
	logger     *slog.Logger
}

// NewFindAvailabilityHandler creates a new FindAvailabilityHandler.
func NewFindAvailabilityHandler(aggregator *services.BusyTimeAggregator, logger *slog.Logger) *FindAvailabilityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FindAvailabilityHandler{aggregator: aggregator, logger: logger}
}

// Handle executes the availability search. Input validation happens before
// any gateway call; gateway failures degrade the result instead of failing it.
func (h *FindAvailabilityHandler) Handle(ctx context.Context, query FindAvailabilityQuery) (*AvailabilityResult, error) {
	if !query.WindowEnd.After(query.WindowStart) {
		return nil, ErrInvalidWindow
	}
	if query.MinDuration < MinSlotDuration {
		return nil, ErrMinDurationTooLow
	}

	hours := domain.DefaultWorkingHours()
	if query.WorkingHours != nil {
		hours = *query.WorkingHours
	}
	prefs := domain.DefaultPreferences()
	if query.Preferences != nil {
		prefs = *query.Preferences
	}

	pooled, report := h.aggregator.Collect(ctx, query.ParticipantIDs, query.WindowStart, query.WindowEnd)

	result := &AvailabilityResult{
		ParticipantsRequested:        len(query.ParticipantIDs),
		ParticipantsWithCalendarData: len(report.Succeeded),
		FetchReport:                  report,
		WindowStart:                  query.WindowStart,
		WindowEnd:                    query.WindowEnd,
	}

	var candidates []domain.FreeSlot
	if len(report.Succeeded) == 0 {
		h.logger.Info("no participant calendar data, using default slots",
			"participants", len(query.ParticipantIDs),
		)
		candidates = domain.DefaultSlots(query.WindowStart, query.WindowEnd, query.MinDuration)
	} else {
		merged := domain.MergeIntervals(pooled)
		candidates = domain.FindFreeSlots(merged, query.WindowStart, query.WindowEnd, hours, query.MinDuration)
	}

	result.Slots = domain.RankSlots(candidates, prefs, MaxSuggestions)
	return result, nil
}
