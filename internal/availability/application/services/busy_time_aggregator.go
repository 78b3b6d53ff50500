package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/availability/application"
	"github.com/tetherhq/tether/internal/availability/domain"
)

// ErrNoPrimaryCalendar marks a connected participant without a usable
// primary calendar.
var ErrNoPrimaryCalendar = errors.New("no primary calendar designated")

// FetchFailure records one participant whose busy data could not be fetched.
type FetchFailure struct {
	ParticipantID uuid.UUID
	Err           error
}

// FetchReport describes the per-participant outcome of a collection run.
// Participants without a connected calendar appear in neither list.
type FetchReport struct {
	Succeeded []uuid.UUID
	Failed    []FetchFailure
}

// BusyTimeAggregator collects busy intervals for a set of participants from
// the calendar gateway. Fetches run concurrently and are independent: one
// participant's failure never aborts or delays the others.
type BusyTimeAggregator struct {
	gateway application.CalendarGateway
	logger  *slog.Logger
}

// NewBusyTimeAggregator creates an aggregator over the given gateway.
func NewBusyTimeAggregator(gateway application.CalendarGateway, logger *slog.Logger) *BusyTimeAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusyTimeAggregator{gateway: gateway, logger: logger}
}

type fetchOutcome struct {
	participantID uuid.UUID
	intervals     []domain.Interval
	connected     bool
	err           error
}

// Collect fetches busy intervals for every participant within the window and
// pools them into a single list. Cancelling ctx propagates to the in-flight
// fetches.
func (a *BusyTimeAggregator) Collect(ctx context.Context, participantIDs []uuid.UUID, start, end time.Time) ([]domain.Interval, FetchReport) {
	outcomes := make(chan fetchOutcome, len(participantIDs))

	var wg sync.WaitGroup
	for _, id := range participantIDs {
		wg.Add(1)
		go func(participantID uuid.UUID) {
			defer wg.Done()
			outcomes <- a.fetchOne(ctx, participantID, start, end)
		}(id)
	}
	wg.Wait()
	close(outcomes)

	pooled := make([]domain.Interval, 0)
	report := FetchReport{
		Succeeded: make([]uuid.UUID, 0, len(participantIDs)),
		Failed:    make([]FetchFailure, 0),
	}

	for outcome := range outcomes {
		switch {
		case outcome.err != nil:
			a.logger.Warn("busy interval fetch failed",
				"participant_id", outcome.participantID.String(),
				"error", outcome.err,
			)
			report.Failed = append(report.Failed, FetchFailure{
				ParticipantID: outcome.participantID,
				Err:           outcome.err,
			})
		case !outcome.connected:
			a.logger.Debug("participant has no connected calendar",
				"participant_id", outcome.participantID.String(),
			)
		default:
			pooled = append(pooled, outcome.intervals...)
			report.Succeeded = append(report.Succeeded, outcome.participantID)
		}
	}

	return pooled, report
}

func (a *BusyTimeAggregator) fetchOne(ctx context.Context, participantID uuid.UUID, start, end time.Time) fetchOutcome {
	connected, err := a.gateway.IsConnected(ctx, participantID)
	if err != nil {
		return fetchOutcome{participantID: participantID, err: err}
	}
	if !connected {
		return fetchOutcome{participantID: participantID, connected: false}
	}

	calendarID, err := a.gateway.PrimaryCalendarID(ctx, participantID)
	if err != nil {
		return fetchOutcome{participantID: participantID, err: err}
	}
	if calendarID == "" {
		return fetchOutcome{participantID: participantID, err: ErrNoPrimaryCalendar}
	}

	intervals, err := a.gateway.BusyIntervals(ctx, participantID, calendarID, start, end)
	if err != nil {
		return fetchOutcome{participantID: participantID, err: err}
	}

	return fetchOutcome{participantID: participantID, intervals: intervals, connected: true}
}
