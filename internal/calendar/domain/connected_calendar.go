package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/tetherhq/tether/internal/shared/domain"
)

var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrInvalidProvider = errors.New("invalid provider type")
	ErrEmptyCalendarID = errors.New("calendar ID cannot be empty")
	ErrEmptyName       = errors.New("calendar name cannot be empty")
)

// ConnectedCalendar represents a user's connected external calendar. The
// availability engine reads connections through this aggregate: whoever has
// an enabled primary calendar counts as "connected" for scheduling.
type ConnectedCalendar struct {
	sharedDomain.BaseEntity
	userID     uuid.UUID
	provider   ProviderType
	calendarID string // External calendar ID (e.g. "primary", a CalDAV path)
	name       string
	isPrimary  bool
	isEnabled  bool
	config     map[string]string // Provider-specific configuration
}

// NewConnectedCalendar creates a new connected calendar after validating
// all inputs.
func NewConnectedCalendar(userID uuid.UUID, provider ProviderType, calendarID, name string) (*ConnectedCalendar, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}
	if !provider.IsValid() {
		return nil, ErrInvalidProvider
	}
	if strings.TrimSpace(calendarID) == "" {
		return nil, ErrEmptyCalendarID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	return &ConnectedCalendar{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		provider:   provider,
		calendarID: calendarID,
		name:       name,
		isPrimary:  false,
		isEnabled:  true,
		config:     make(map[string]string),
	}, nil
}

// Getters
func (c *ConnectedCalendar) UserID() uuid.UUID      { return c.userID }
func (c *ConnectedCalendar) Provider() ProviderType { return c.provider }
func (c *ConnectedCalendar) CalendarID() string     { return c.calendarID }
func (c *ConnectedCalendar) Name() string           { return c.name }
func (c *ConnectedCalendar) IsPrimary() bool        { return c.isPrimary }
func (c *ConnectedCalendar) IsEnabled() bool        { return c.isEnabled }

// Config returns a provider-specific configuration value.
func (c *ConnectedCalendar) Config(key string) string {
	return c.config[key]
}

// SetConfig stores a provider-specific configuration value.
func (c *ConnectedCalendar) SetConfig(key, value string) {
	c.config[key] = value
	c.Touch()
}

// ConfigJSON serializes the configuration for persistence.
func (c *ConnectedCalendar) ConfigJSON() string {
	if len(c.config) == 0 {
		return "{}"
	}
	data, err := json.Marshal(c.config)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MarkPrimary designates this calendar as the user's primary calendar.
func (c *ConnectedCalendar) MarkPrimary() {
	c.isPrimary = true
	c.Touch()
}

// UnmarkPrimary removes the primary designation.
func (c *ConnectedCalendar) UnmarkPrimary() {
	c.isPrimary = false
	c.Touch()
}

// Enable turns the connection on.
func (c *ConnectedCalendar) Enable() {
	c.isEnabled = true
	c.Touch()
}

// Disable turns the connection off without removing it.
func (c *ConnectedCalendar) Disable() {
	c.isEnabled = false
	c.Touch()
}

// RehydrateConnectedCalendar recreates a connected calendar from persisted state.
func RehydrateConnectedCalendar(
	id uuid.UUID,
	userID uuid.UUID,
	provider ProviderType,
	calendarID string,
	name string,
	isPrimary, isEnabled bool,
	configJSON string,
	createdAt, updatedAt time.Time,
) *ConnectedCalendar {
	config := make(map[string]string)
	if configJSON != "" {
		_ = json.Unmarshal([]byte(configJSON), &config)
	}

	return &ConnectedCalendar{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		provider:   provider,
		calendarID: calendarID,
		name:       name,
		isPrimary:  isPrimary,
		isEnabled:  isEnabled,
		config:     config,
	}
}
