// Package resilience wraps calendar gateways with circuit breakers so one
// flaky provider cannot slow every availability query down.
package resilience

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
)

// BreakerConfig configures circuit breaker behavior.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerGateway wraps a calendar gateway with one circuit breaker per
// participant. Breakers guard the data calls only; connection lookups hit
// the local store and stay unguarded.
type BreakerGateway struct {
	inner  availabilityApp.CalendarGateway
	config BreakerConfig
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[uuid.UUID]*gobreaker.CircuitBreaker[any]
}

// NewBreakerGateway creates a circuit-breaking gateway over inner.
func NewBreakerGateway(inner availabilityApp.CalendarGateway, config BreakerConfig, logger *slog.Logger) *BreakerGateway {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FailureThreshold == 0 {
		config = DefaultBreakerConfig()
	}
	return &BreakerGateway{
		inner:    inner,
		config:   config,
		logger:   logger,
		breakers: make(map[uuid.UUID]*gobreaker.CircuitBreaker[any]),
	}
}

// IsConnected delegates to the inner gateway.
func (g *BreakerGateway) IsConnected(ctx context.Context, participantID uuid.UUID) (bool, error) {
	return g.inner.IsConnected(ctx, participantID)
}

// PrimaryCalendarID delegates to the inner gateway.
func (g *BreakerGateway) PrimaryCalendarID(ctx context.Context, participantID uuid.UUID) (string, error) {
	return g.inner.PrimaryCalendarID(ctx, participantID)
}

// BusyIntervals fetches busy intervals through the participant's breaker.
func (g *BreakerGateway) BusyIntervals(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityDomain.Interval, error) {
	result, err := g.getBreaker(participantID).Execute(func() (any, error) {
		return g.inner.BusyIntervals(ctx, participantID, calendarID, start, end)
	})
	if err != nil {
		return nil, err
	}
	return result.([]availabilityDomain.Interval), nil
}

// Events fetches events through the participant's breaker.
func (g *BreakerGateway) Events(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityApp.CalendarEvent, error) {
	result, err := g.getBreaker(participantID).Execute(func() (any, error) {
		return g.inner.Events(ctx, participantID, calendarID, start, end)
	})
	if err != nil {
		return nil, err
	}
	return result.([]availabilityApp.CalendarEvent), nil
}

// getBreaker returns the circuit breaker for a participant, creating it if needed.
func (g *BreakerGateway) getBreaker(participantID uuid.UUID) *gobreaker.CircuitBreaker[any] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if breaker, exists := g.breakers[participantID]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        participantID.String(),
		MaxRequests: g.config.MaxRequests,
		Interval:    g.config.Interval,
		Timeout:     g.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= g.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Info("calendar circuit breaker state changed",
				"participant_id", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	g.breakers[participantID] = breaker
	return breaker
}
