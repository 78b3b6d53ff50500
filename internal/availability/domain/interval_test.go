package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetherhq/tether/internal/availability/domain"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}

func TestNewInterval(t *testing.T) {
	iv, err := domain.NewInterval(at(9, 0), at(10, 0))

	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())
}

func TestNewInterval_Invalid(t *testing.T) {
	_, err := domain.NewInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = domain.NewInterval(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}

func TestInterval_Overlaps(t *testing.T) {
	a := domain.Interval{Start: at(9, 0), End: at(10, 0)}

	assert.True(t, a.Overlaps(domain.Interval{Start: at(9, 30), End: at(11, 0)}))
	assert.False(t, a.Overlaps(domain.Interval{Start: at(10, 0), End: at(11, 0)}))
	assert.False(t, a.Overlaps(domain.Interval{Start: at(11, 0), End: at(12, 0)}))
}

func TestMergeIntervals_Empty(t *testing.T) {
	merged := domain.MergeIntervals(nil)
	assert.Empty(t, merged)
}

func TestMergeIntervals_Single(t *testing.T) {
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(9, 0), End: at(10, 0)},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, at(9, 0), merged[0].Start)
	assert.Equal(t, at(10, 0), merged[0].End)
}

func TestMergeIntervals_Overlapping(t *testing.T) {
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(9, 30), End: at(11, 0)},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, at(9, 0), merged[0].Start)
	assert.Equal(t, at(11, 0), merged[0].End)
}

func TestMergeIntervals_Touching(t *testing.T) {
	// An interval starting exactly where another ends merges with it, so
	// no zero-length gap survives at the boundary.
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(10, 0), End: at(11, 0)},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, at(9, 0), merged[0].Start)
	assert.Equal(t, at(11, 0), merged[0].End)
}

func TestMergeIntervals_Nested(t *testing.T) {
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(9, 0), End: at(12, 0)},
		{Start: at(10, 0), End: at(11, 0)},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, at(9, 0), merged[0].Start)
	assert.Equal(t, at(12, 0), merged[0].End)
}

func TestMergeIntervals_Unordered(t *testing.T) {
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(14, 0), End: at(15, 0)},
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(11, 0), End: at(12, 0)},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, at(9, 0), merged[0].Start)
	assert.Equal(t, at(11, 0), merged[1].Start)
	assert.Equal(t, at(14, 0), merged[2].Start)
}

func TestMergeIntervals_SortedAndDisjoint(t *testing.T) {
	merged := domain.MergeIntervals([]domain.Interval{
		{Start: at(13, 0), End: at(14, 30)},
		{Start: at(9, 0), End: at(10, 30)},
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(14, 0), End: at(16, 0)},
	})

	for i := 1; i < len(merged); i++ {
		assert.True(t, merged[i].Start.After(merged[i-1].End),
			"merged intervals must be sorted and pairwise disjoint")
	}
}

func TestMergeIntervals_CoveragePreserving(t *testing.T) {
	input := []domain.Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(9, 30), End: at(11, 0)},
		{Start: at(13, 0), End: at(14, 0)},
	}

	merged := domain.MergeIntervals(input)

	// 9:00-11:00 plus 13:00-14:00.
	assert.Equal(t, 3*time.Hour, merged.TotalBusy())
}

func TestMergeIntervals_Idempotent(t *testing.T) {
	input := []domain.Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(9, 30), End: at(11, 0)},
		{Start: at(13, 0), End: at(14, 0)},
	}

	once := domain.MergeIntervals(input)
	twice := domain.MergeIntervals(once)

	assert.Equal(t, once, twice)
}
