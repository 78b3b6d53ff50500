package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
	"github.com/tetherhq/tether/internal/calendar/domain"
)

// BusyProvider reads busy data and events from one provider type. A provider
// is configured per calendar through the connection's config map.
type BusyProvider interface {
	// BusyIntervals returns the busy intervals recorded in the calendar
	// within the window.
	BusyIntervals(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityDomain.Interval, error)

	// Events returns the events overlapping the window.
	Events(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityApp.CalendarEvent, error)
}

// ProviderRegistry maps provider types to their BusyProvider implementations.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[domain.ProviderType]BusyProvider
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[domain.ProviderType]BusyProvider),
	}
}

// Register registers a provider implementation for a provider type.
func (r *ProviderRegistry) Register(providerType domain.ProviderType, provider BusyProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[providerType] = provider
}

// Provider returns the implementation for the given provider type.
func (r *ProviderRegistry) Provider(providerType domain.ProviderType) (BusyProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[providerType]
	if !ok {
		return nil, fmt.Errorf("no provider registered for: %s", providerType)
	}
	return provider, nil
}

// HasProvider returns true if a provider type is registered.
func (r *ProviderRegistry) HasProvider(providerType domain.ProviderType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[providerType]
	return ok
}
