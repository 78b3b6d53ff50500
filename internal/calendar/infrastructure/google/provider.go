package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	availabilityApp "github.com/tetherhq/tether/internal/availability/application"
	availabilityDomain "github.com/tetherhq/tether/internal/availability/domain"
	"github.com/tetherhq/tether/internal/calendar/domain"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

type tokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// Provider reads busy data from Google Calendar over the REST API. Busy
// intervals come from the freeBusy endpoint; event details come from the
// events list.
type Provider struct {
	oauthService tokenSourceProvider
	logger       *slog.Logger
	baseURL      string
}

// NewProvider creates a Google Calendar busy provider.
func NewProvider(oauthService tokenSourceProvider, logger *slog.Logger) *Provider {
	return NewProviderWithBaseURL(oauthService, logger, defaultBaseURL)
}

// NewProviderWithBaseURL creates a Google Calendar busy provider with a custom base URL.
func NewProviderWithBaseURL(oauthService tokenSourceProvider, logger *slog.Logger, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		oauthService: oauthService,
		logger:       logger,
		baseURL:      baseURL,
	}
}

// BusyIntervals queries the freeBusy endpoint for the calendar's busy periods
// within the window.
func (p *Provider) BusyIntervals(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityDomain.Interval, error) {
	client, err := p.getClient(ctx, cal.UserID())
	if err != nil {
		return nil, err
	}

	calendarID := p.calendarID(cal)
	request := freeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
		Items:   []freeBusyItem{{ID: calendarID}},
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	queryURL := fmt.Sprintf("%s/freeBusy", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var payload struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	entry, ok := payload.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", calendarID)
	}
	if len(entry.Errors) > 0 {
		return nil, fmt.Errorf("freebusy query failed for %s: %s", calendarID, entry.Errors[0].Reason)
	}

	intervals := make([]availabilityDomain.Interval, 0, len(entry.Busy))
	for _, period := range entry.Busy {
		startTime, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		endTime, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		interval, err := availabilityDomain.NewInterval(startTime, endTime)
		if err != nil {
			p.logger.Debug("skipping malformed busy period",
				"calendar_id", calendarID, "error", err)
			continue
		}
		intervals = append(intervals, interval)
	}
	return intervals, nil
}

type freeBusyRequest struct {
	TimeMin string         `json:"timeMin"`
	TimeMax string         `json:"timeMax"`
	Items   []freeBusyItem `json:"items"`
}

type freeBusyItem struct {
	ID string `json:"id"`
}

// Events returns non-cancelled events within the given time range.
func (p *Provider) Events(ctx context.Context, cal *domain.ConnectedCalendar, start, end time.Time) ([]availabilityApp.CalendarEvent, error) {
	client, err := p.getClient(ctx, cal.UserID())
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("timeMin=%s&timeMax=%s&singleEvents=true&orderBy=startTime",
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
	)
	listURL := fmt.Sprintf("%s/calendars/%s/events?%s", p.baseURL, url.PathEscape(p.calendarID(cal)), query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var payload struct {
		Items []struct {
			ID      string `json:"id"`
			Summary string `json:"summary"`
			Status  string `json:"status"`
			Start   struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"start"`
			End struct {
				DateTime string `json:"dateTime"`
				Date     string `json:"date"`
			} `json:"end"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	events := make([]availabilityApp.CalendarEvent, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Status == "cancelled" {
			continue
		}

		event := availabilityApp.CalendarEvent{
			ID:    item.ID,
			Label: item.Summary,
		}

		// Handle both timed and all-day events
		if item.Start.DateTime != "" && item.End.DateTime != "" {
			startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				continue
			}
			endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				continue
			}
			event.Start = startTime
			event.End = endTime
		} else if item.Start.Date != "" && item.End.Date != "" {
			startTime, err := time.Parse("2006-01-02", item.Start.Date)
			if err != nil {
				continue
			}
			endTime, err := time.Parse("2006-01-02", item.End.Date)
			if err != nil {
				continue
			}
			event.Start = startTime
			event.End = endTime
		} else {
			continue // Skip events without valid time info
		}

		events = append(events, event)
	}
	return events, nil
}

func (p *Provider) calendarID(cal *domain.ConnectedCalendar) string {
	if cal.CalendarID() != "" {
		return cal.CalendarID()
	}
	return "primary"
}

func (p *Provider) getClient(ctx context.Context, userID uuid.UUID) (*http.Client, error) {
	if p.oauthService == nil {
		return nil, fmt.Errorf("oauth service not configured")
	}
	tokenSource, err := p.oauthService.TokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauthTransport{
			base:   http.DefaultTransport,
			source: tokenSource,
		},
	}, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("calendar request failed: status=%d body=%s", resp.StatusCode, string(body))
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}
