package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
)

// DefaultTTL is how long cached busy intervals stay fresh. Busy data is
// advisory; a few minutes of staleness is acceptable for suggestions.
const DefaultTTL = 5 * time.Minute

// RedisGateway is a read-through cache in front of a calendar gateway.
// Only BusyIntervals is cached: it is the hot path during availability
// fan-out, while connection lookups and event detail stay live. Redis
// failures never surface to the caller; the gateway falls through to the
// inner implementation.
type RedisGateway struct {
	inner  availabilityApp.CalendarGateway
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisGateway creates a caching gateway over inner.
func NewRedisGateway(inner availabilityApp.CalendarGateway, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisGateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisGateway{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// IsConnected delegates to the inner gateway.
func (g *RedisGateway) IsConnected(ctx context.Context, participantID uuid.UUID) (bool, error) {
	return g.inner.IsConnected(ctx, participantID)
}

// PrimaryCalendarID delegates to the inner gateway.
func (g *RedisGateway) PrimaryCalendarID(ctx context.Context, participantID uuid.UUID) (string, error) {
	return g.inner.PrimaryCalendarID(ctx, participantID)
}

// cachedInterval is the wire form of a busy interval in Redis.
type cachedInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusyIntervals returns cached intervals when fresh, otherwise fetches from
// the inner gateway and stores the result.
func (g *RedisGateway) BusyIntervals(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityDomain.Interval, error) {
	key := busyKey(participantID, calendarID, start, end)

	if cached, ok := g.lookup(ctx, key); ok {
		return cached, nil
	}

	intervals, err := g.inner.BusyIntervals(ctx, participantID, calendarID, start, end)
	if err != nil {
		return nil, err
	}

	g.store(ctx, key, intervals)
	return intervals, nil
}

// Events delegates to the inner gateway. Conflict checks want live data.
func (g *RedisGateway) Events(ctx context.Context, participantID uuid.UUID, calendarID string, start, end time.Time) ([]availabilityApp.CalendarEvent, error) {
	return g.inner.Events(ctx, participantID, calendarID, start, end)
}

func (g *RedisGateway) lookup(ctx context.Context, key string) ([]availabilityDomain.Interval, bool) {
	data, err := g.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		g.logger.Warn("busy cache read failed", "key", key, "error", err)
		return nil, false
	}

	var cached []cachedInterval
	if err := json.Unmarshal(data, &cached); err != nil {
		g.logger.Warn("busy cache entry corrupt", "key", key, "error", err)
		return nil, false
	}

	intervals := make([]availabilityDomain.Interval, 0, len(cached))
	for _, c := range cached {
		interval, err := availabilityDomain.NewInterval(c.Start, c.End)
		if err != nil {
			g.logger.Warn("busy cache entry corrupt", "key", key, "error", err)
			return nil, false
		}
		intervals = append(intervals, interval)
	}
	return intervals, true
}

func (g *RedisGateway) store(ctx context.Context, key string, intervals []availabilityDomain.Interval) {
	cached := make([]cachedInterval, 0, len(intervals))
	for _, interval := range intervals {
		cached = append(cached, cachedInterval{Start: interval.Start, End: interval.End})
	}

	data, err := json.Marshal(cached)
	if err != nil {
		g.logger.Warn("busy cache encode failed", "key", key, "error", err)
		return
	}
	if err := g.client.Set(ctx, key, data, g.ttl).Err(); err != nil {
		g.logger.Warn("busy cache write failed", "key", key, "error", err)
	}
}

func busyKey(participantID uuid.UUID, calendarID string, start, end time.Time) string {
	return fmt.Sprintf("busy:%s:%s:%d:%d", participantID, calendarID, start.Unix(), end.Unix())
}
