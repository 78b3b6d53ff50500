package domain

import "time"

// Canonical fallback windows offered when no participant has calendar data.
var defaultWindows = []struct {
	start time.Duration
	end   time.Duration
}{
	{10 * time.Hour, 12 * time.Hour}, // morning
	{14 * time.Hour, 17 * time.Hour}, // afternoon
	{18 * time.Hour, 20 * time.Hour}, // evening
}

// DefaultSlots synthesizes morning/afternoon/evening candidates for every
// calendar day in the window, clipped to the window bounds. Candidates whose
// clipped duration falls below minDuration are discarded; when minDuration
// exceeds every canonical window the result is empty, no wider windows are
// invented. Output is chronological.
func DefaultSlots(windowStart, windowEnd time.Time, minDuration time.Duration) []FreeSlot {
	slots := make([]FreeSlot, 0)
	day := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, windowStart.Location())

	for day.Before(windowEnd) {
		for _, w := range defaultWindows {
			start := day.Add(w.start)
			end := day.Add(w.end)

			if start.Before(windowStart) {
				start = windowStart
			}
			if end.After(windowEnd) {
				end = windowEnd
			}
			if end.Sub(start) < minDuration {
				continue
			}

			slots = append(slots, FreeSlot{
				Start:       start,
				End:         end,
				DurationMin: int(end.Sub(start).Minutes()),
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots
}
