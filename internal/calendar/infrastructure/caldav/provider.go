package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
	"github.com/tetherhq/tether/internal/calendar/domain"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// Config keys read from a connected calendar.
const (
	ConfigBaseURL  = "base_url"
	ConfigUsername = "username"
	ConfigPassword = "password" // App-specific password for Apple
)

// Provider reads busy data from a CalDAV calendar (Apple Calendar, Fastmail,
// Nextcloud, etc.). Credentials and server location come from the connected
// calendar's config; the calendar path is the connection's calendar ID.
type Provider struct {
	logger *slog.Logger
}

// NewProvider creates a CalDAV busy provider.
func NewProvider(logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{logger: logger}
}

// BusyIntervals returns intervals covered by non-cancelled events within the window.
func (p *Provider) BusyIntervals(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityDomain.Interval, error) {
	events, err := p.Events(ctx, cal, start, end)
	if err != nil {
		return nil, err
	}

	intervals := make([]availabilityDomain.Interval, 0, len(events))
	for _, event := range events {
		interval, err := availabilityDomain.NewInterval(event.Start, event.End)
		if err != nil {
			p.logger.Debug("skipping caldav event with invalid times",
				"event_id", event.ID, "error", err)
			continue
		}
		intervals = append(intervals, interval)
	}
	return intervals, nil
}

// Events returns the events overlapping the window.
func (p *Provider) Events(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityApp.CalendarEvent, error) {
	client, err := p.getClient(cal)
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client, cal)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "STATUS"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: start,
					End:   end,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	events := make([]availabilityApp.CalendarEvent, 0, len(objects))
	for _, obj := range objects {
		for _, event := range parseCalendarObject(&obj) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (p *Provider) getClient(cal *domain.ConnectedCalendar) (*caldav.Client, error) {
	baseURL := cal.Config(ConfigBaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("caldav connection %s has no base_url configured", cal.ID())
	}
	username := cal.Config(ConfigUsername)
	password := cal.Config(ConfigPassword)

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &basicAuthTransport{
			username: username,
			password: password,
			base:     http.DefaultTransport,
		},
	}

	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, username, password), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Provider) findCalendarPath(ctx context.Context, client *caldav.Client, cal *domain.ConnectedCalendar) (string, error) {
	if cal.CalendarID() != "" {
		return cal.CalendarID(), nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}

// parseCalendarObject extracts events from a calendar object. Cancelled
// events are dropped; they no longer block time.
func parseCalendarObject(obj *caldav.CalendarObject) []availabilityApp.CalendarEvent {
	if obj == nil || obj.Data == nil {
		return nil
	}

	events := make([]availabilityApp.CalendarEvent, 0, 1)
	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}

		event := availabilityApp.CalendarEvent{ID: obj.Path}
		if props := child.Props[ical.PropUID]; len(props) > 0 {
			event.ID = props[0].Value
		}
		if props := child.Props[ical.PropSummary]; len(props) > 0 {
			event.Label = props[0].Value
		}
		if props := child.Props[ical.PropStatus]; len(props) > 0 && props[0].Value == "CANCELLED" {
			continue
		}

		icalEvent := &ical.Event{Component: child}
		start, err := icalEvent.DateTimeStart(time.UTC)
		if err != nil {
			continue
		}
		endTime, err := icalEvent.DateTimeEnd(time.UTC)
		if err != nil {
			continue
		}
		event.Start = start
		event.End = endTime

		events = append(events, event)
	}
	return events
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}
