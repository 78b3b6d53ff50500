package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetherhq/tether/internal/availability/domain"
)

func TestDefaultWorkingHours(t *testing.T) {
	hours := domain.DefaultWorkingHours()

	assert.Equal(t, 9*time.Hour, hours.Start)
	assert.Equal(t, 21*time.Hour, hours.End)
}

func TestNewWorkingHours(t *testing.T) {
	hours, err := domain.NewWorkingHours(8*time.Hour, 18*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, hours.Start)
	assert.Equal(t, 18*time.Hour, hours.End)
}

func TestNewWorkingHours_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start time.Duration
		end   time.Duration
	}{
		{"end equals start", 9 * time.Hour, 9 * time.Hour},
		{"end before start", 18 * time.Hour, 9 * time.Hour},
		{"negative start", -time.Hour, 9 * time.Hour},
		{"end past midnight", 9 * time.Hour, 25 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewWorkingHours(tt.start, tt.end)
			assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)
		})
	}
}

func TestWorkingHours_WindowFor(t *testing.T) {
	hours := domain.DefaultWorkingHours()

	start, end := hours.WindowFor(at(14, 30))

	assert.Equal(t, at(9, 0), start)
	assert.Equal(t, at(21, 0), end)
}
