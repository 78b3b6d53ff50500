package domain

import "time"

// TimeOfDay names a preferred part of the day for meeting slots.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"   // 09:00-12:00
	TimeOfDayAfternoon TimeOfDay = "afternoon" // 12:00-17:00
	TimeOfDayEvening   TimeOfDay = "evening"   // 17:00-21:00
	TimeOfDayNone      TimeOfDay = "none"
)

// IsValid reports whether the value is a known time-of-day preference.
func (t TimeOfDay) IsValid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening, TimeOfDayNone:
		return true
	}
	return false
}

// Preferences holds the soft scheduling preferences used to rank candidate
// slots. Defaults are resolved once via DefaultPreferences rather than inline
// in the scoring logic.
type Preferences struct {
	PreferredTimeOfDay  TimeOfDay
	PreferWeekends      bool
	AvoidEarlyMorning   bool
	AvoidLateNight      bool
	PreferredDaysOfWeek []time.Weekday
}

// DefaultPreferences returns the documented defaults: no time-of-day
// preference, weekdays neutral, early mornings and late nights avoided.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferredTimeOfDay: TimeOfDayNone,
		PreferWeekends:     false,
		AvoidEarlyMorning:  true,
		AvoidLateNight:     true,
	}
}

// PrefersDay reports whether the weekday is in the preferred set.
func (p Preferences) PrefersDay(day time.Weekday) bool {
	for _, d := range p.PreferredDaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}
