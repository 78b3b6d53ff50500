package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tetherhq/tether/internal/availability/domain"
)

func TestDefaultPreferences(t *testing.T) {
	prefs := domain.DefaultPreferences()

	assert.Equal(t, domain.TimeOfDayNone, prefs.PreferredTimeOfDay)
	assert.False(t, prefs.PreferWeekends)
	assert.True(t, prefs.AvoidEarlyMorning)
	assert.True(t, prefs.AvoidLateNight)
	assert.Empty(t, prefs.PreferredDaysOfWeek)
}

func TestTimeOfDay_IsValid(t *testing.T) {
	assert.True(t, domain.TimeOfDayMorning.IsValid())
	assert.True(t, domain.TimeOfDayAfternoon.IsValid())
	assert.True(t, domain.TimeOfDayEvening.IsValid())
	assert.True(t, domain.TimeOfDayNone.IsValid())
	assert.False(t, domain.TimeOfDay("brunch").IsValid())
}

func TestPreferences_PrefersDay(t *testing.T) {
	prefs := domain.Preferences{
		PreferredDaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
	}

	assert.True(t, prefs.PrefersDay(time.Tuesday))
	assert.False(t, prefs.PrefersDay(time.Friday))
	assert.False(t, domain.DefaultPreferences().PrefersDay(time.Monday))
}

func TestNewWorkingHours_Prefs(t *testing.T) {
	hours, err := domain.NewWorkingHours(8*time.Hour, 18*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, 8*time.Hour, hours.Start)
	assert.Equal(t, 18*time.Hour, hours.End)
}

func TestNewWorkingHours_Invalid_Prefs(t *testing.T) {
	_, err := domain.NewWorkingHours(18*time.Hour, 8*time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)

	_, err = domain.NewWorkingHours(-time.Hour, 8*time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)

	_, err = domain.NewWorkingHours(8*time.Hour, 25*time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)
}

func TestWorkingHours_WindowFor_Prefs(t *testing.T) {
	hours := domain.DefaultWorkingHours()
	noon := time.Date(2026, time.March, 9, 12, 30, 0, 0, time.UTC)

	start, end := hours.WindowFor(noon)

	assert.Equal(t, time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 9, 21, 0, 0, 0, time.UTC), end)
}
