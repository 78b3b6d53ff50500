package caldav

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

func TestParseCalendarObject(t *testing.T) {
	startTime := time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC)
	endTime := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	eventID := uuid.New().String()

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, eventID)
	event.Props.SetText(ical.PropSummary, "Dentist")
	event.Props.SetText(ical.PropStatus, "CONFIRMED")
	event.Props.SetDateTime(ical.PropDateTimeStart, startTime)
	event.Props.SetDateTime(ical.PropDateTimeEnd, endTime)

	cal := ical.NewCalendar()
	cal.Children = append(cal.Children, event.Component)

	obj := &caldav.CalendarObject{
		Path: "/calendars/user/personal/" + eventID + ".ics",
		Data: cal,
	}

	events := parseCalendarObject(obj)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID != eventID {
		t.Errorf("expected ID %s, got %s", eventID, events[0].ID)
	}
	if events[0].Label != "Dentist" {
		t.Errorf("expected Label 'Dentist', got %s", events[0].Label)
	}
	if !events[0].Start.Equal(startTime) {
		t.Errorf("expected Start %v, got %v", startTime, events[0].Start)
	}
	if !events[0].End.Equal(endTime) {
		t.Errorf("expected End %v, got %v", endTime, events[0].End)
	}
}

func TestParseCalendarObject_NilObject(t *testing.T) {
	if events := parseCalendarObject(nil); events != nil {
		t.Error("expected nil result for nil input")
	}
}

func TestParseCalendarObject_NilData(t *testing.T) {
	obj := &caldav.CalendarObject{Data: nil}
	if events := parseCalendarObject(obj); events != nil {
		t.Error("expected nil result for nil data")
	}
}

func TestParseCalendarObject_SkipsCancelled(t *testing.T) {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, "cancelled-test")
	event.Props.SetText(ical.PropSummary, "Cancelled Meeting")
	event.Props.SetText(ical.PropStatus, "CANCELLED")
	event.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC))
	event.Props.SetDateTime(ical.PropDateTimeEnd, time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC))

	cal := ical.NewCalendar()
	cal.Children = append(cal.Children, event.Component)

	obj := &caldav.CalendarObject{
		Path: "/calendars/user/personal/cancelled.ics",
		Data: cal,
	}

	events := parseCalendarObject(obj)

	if len(events) != 0 {
		t.Errorf("expected cancelled event to be dropped, got %d events", len(events))
	}
}

func TestParseCalendarObject_SkipsEventWithoutTimes(t *testing.T) {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, "no-times")
	event.Props.SetText(ical.PropSummary, "Floating Task")

	cal := ical.NewCalendar()
	cal.Children = append(cal.Children, event.Component)

	obj := &caldav.CalendarObject{
		Path: "/calendars/user/personal/floating.ics",
		Data: cal,
	}

	events := parseCalendarObject(obj)

	if len(events) != 0 {
		t.Errorf("expected event without times to be dropped, got %d events", len(events))
	}
}

func TestParseCalendarObject_MultipleEvents(t *testing.T) {
	cal := ical.NewCalendar()
	for i, summary := range []string{"Morning Sync", "Afternoon Review"} {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, uuid.New().String())
		event.Props.SetText(ical.PropSummary, summary)
		event.Props.SetDateTime(ical.PropDateTimeStart, time.Date(2026, time.March, 9, 9+4*i, 0, 0, 0, time.UTC))
		event.Props.SetDateTime(ical.PropDateTimeEnd, time.Date(2026, time.March, 9, 10+4*i, 0, 0, 0, time.UTC))
		cal.Children = append(cal.Children, event.Component)
	}

	obj := &caldav.CalendarObject{
		Path: "/calendars/user/personal/recurring.ics",
		Data: cal,
	}

	events := parseCalendarObject(obj)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Label != "Morning Sync" || events[1].Label != "Afternoon Review" {
		t.Errorf("unexpected event labels: %s, %s", events[0].Label, events[1].Label)
	}
}

func TestBasicAuthTransport_RoundTrip(t *testing.T) {
	transport := &basicAuthTransport{
		username: "testuser",
		password: "testpass",
		base:     &mockRoundTripper{},
	}

	req, _ := http.NewRequest(http.MethodGet, "https://caldav.example.com", nil)

	if req.Header.Get("Authorization") != "" {
		t.Error("expected no Authorization header before RoundTrip")
	}

	_, _ = transport.RoundTrip(req)

	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		t.Error("expected Authorization header after RoundTrip")
	}
	if !strings.HasPrefix(authHeader, "Basic ") {
		t.Error("expected Basic auth header")
	}
}

// mockRoundTripper for testing basicAuthTransport
type mockRoundTripper struct{}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{StatusCode: 200}, nil
}
