package domain

import "time"

// FreeSlot is a candidate time range within working hours and the requested
// window that contains no busy intervals and meets the minimum duration.
type FreeSlot struct {
	Start       time.Time
	End         time.Time
	DurationMin int
}

// Duration returns the slot length.
func (s FreeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// FindFreeSlots walks the merged busy timeline across the requested window
// and emits the free gaps, clamped per calendar day to the working-hours
// window. Gaps spanning multiple days are split into one candidate per day;
// sub-minimum candidates are discarded. Busy intervals that spill outside
// working hours or cross midnight simply advance the cursor, which the
// per-day clamping re-anchors at the next day's working-hours start.
func FindFreeSlots(busy Timeline, windowStart, windowEnd time.Time, hours WorkingHours, minDuration time.Duration) []FreeSlot {
	slots := make([]FreeSlot, 0)
	cursor := windowStart

	for _, iv := range busy {
		if !iv.End.After(cursor) {
			continue
		}
		if !iv.Start.Before(windowEnd) {
			break
		}
		if iv.Start.After(cursor) {
			gapEnd := iv.Start
			if gapEnd.After(windowEnd) {
				gapEnd = windowEnd
			}
			slots = appendGapSlots(slots, cursor, gapEnd, hours, minDuration)
		}
		cursor = iv.End
	}

	if cursor.Before(windowEnd) {
		slots = appendGapSlots(slots, cursor, windowEnd, hours, minDuration)
	}

	return slots
}

// appendGapSlots splits the gap [gapStart, gapEnd) per calendar day, clamps
// each piece to that day's working hours, and keeps pieces meeting the
// minimum duration. Each step constructs fresh time values; the loop never
// mutates a shared timestamp.
func appendGapSlots(slots []FreeSlot, gapStart, gapEnd time.Time, hours WorkingHours, minDuration time.Duration) []FreeSlot {
	day := time.Date(gapStart.Year(), gapStart.Month(), gapStart.Day(), 0, 0, 0, 0, gapStart.Location())

	for day.Before(gapEnd) {
		workStart, workEnd := hours.WindowFor(day)

		start := gapStart
		if start.Before(workStart) {
			start = workStart
		}
		end := gapEnd
		if end.After(workEnd) {
			end = workEnd
		}

		if end.Sub(start) >= minDuration {
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
