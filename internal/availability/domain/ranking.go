package domain

import (
	"fmt"
	"sort"
	"time"
)

// Scoring weights. The score is an additive heuristic used only to order
// candidate slots, never to filter them.
const (
	baseScore           = 50
	timeOfDayBonus      = 20
	primeAfternoonBonus = 10
	earlyMorningPenalty = 30
	lateNightPenalty    = 30
	weekendBonus        = 15
	weekdayBonus        = 5
	preferredDayBonus   = 15
	longSlotBonus       = 10

	longSlotMinutes = 180
)

// RankedSlot is a free slot with its preference score and the human-readable
// reasons accumulated while scoring, in evaluation order.
type RankedSlot struct {
	FreeSlot
	Score   int
	Reasons []string
}

// ScoreSlot evaluates one slot against the preferences. The result is a pure
// function of its inputs: identical slot and preferences always produce the
// same score and reason trail.
func ScoreSlot(slot FreeSlot, prefs Preferences) RankedSlot {
	ranked := RankedSlot{
		FreeSlot: slot,
		Score:    baseScore,
		Reasons:  make([]string, 0, 4),
	}

	startHour := slot.Start.Hour()

	// Time-of-day checks come first so the reason trail reads naturally.
	if prefs.PreferredTimeOfDay != TimeOfDayNone && prefs.PreferredTimeOfDay.IsValid() {
		if matchesTimeOfDay(startHour, prefs.PreferredTimeOfDay) {
			ranked.Score += timeOfDayBonus
			ranked.Reasons = append(ranked.Reasons, fmt.Sprintf("matches preferred %s window", prefs.PreferredTimeOfDay))
		}
	} else if startHour >= 14 && startHour < 18 {
		ranked.Score += primeAfternoonBonus
		ranked.Reasons = append(ranked.Reasons, "prime afternoon start")
	}

	if prefs.AvoidEarlyMorning && startHour < 9 {
		ranked.Score -= earlyMorningPenalty
		ranked.Reasons = append(ranked.Reasons, "starts before 09:00")
	}
	if prefs.AvoidLateNight && startHour >= 21 {
		ranked.Score -= lateNightPenalty
		ranked.Reasons = append(ranked.Reasons, "starts at or after 21:00")
	}

	weekday := slot.Start.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday
	if prefs.PreferWeekends && isWeekend {
		ranked.Score += weekendBonus
		ranked.Reasons = append(ranked.Reasons, "falls on a weekend")
	} else if !prefs.PreferWeekends && !isWeekend {
		ranked.Score += weekdayBonus
		ranked.Reasons = append(ranked.Reasons, "falls on a weekday")
	}
	if prefs.PrefersDay(weekday) {
		ranked.Score += preferredDayBonus
		ranked.Reasons = append(ranked.Reasons, fmt.Sprintf("falls on preferred %s", weekday))
	}

	if slot.DurationMin >= longSlotMinutes {
		ranked.Score += longSlotBonus
		ranked.Reasons = append(ranked.Reasons, "long enough for an extended visit")
	}

	return ranked
}

// RankSlots scores every slot and returns at most limit of them, ordered by
// score descending. Ties keep the input order, which callers supply
// chronologically, so equal scores resolve to the earlier start.
func RankSlots(slots []FreeSlot, prefs Preferences, limit int) []RankedSlot {
	ranked := make([]RankedSlot, 0, len(slots))
	for _, slot := range slots {
		ranked = append(ranked, ScoreSlot(slot, prefs))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func matchesTimeOfDay(startHour int, pref TimeOfDay) bool {
	switch pref {
	case TimeOfDayMorning:
		return startHour >= 9 && startHour < 12
	case TimeOfDayAfternoon:
		return startHour >= 12 && startHour < 17
	case TimeOfDayEvening:
		return startHour >= 17 && startHour < 21
	}
	return false
}
