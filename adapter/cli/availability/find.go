package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tetherhq/tether/adapter/cli"
	"github.com/tetherhq/tether/internal/availability/application/queries"
	"github.com/tetherhq/tether/internal/availability/domain"
)

var (
	findParticipants   []string
	findFrom           string
	findDays           int
	findMinDuration    time.Duration
	findTimeOfDay      string
	findPreferWeekends bool
	findPreferredDays  []string
	findAllowEarly     bool
	findAllowLate      bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find free slots across participants",
	Long: `Pool busy time from every participant's connected calendar and
suggest the best common free slots.

Examples:
  tether availability find --with 7d9e... --days 7
  tether availability find --with 7d9e...,a1b2... --from 2026-03-09 --min-duration 2h
  tether availability find --with 7d9e... --prefer evening --prefer-days saturday,sunday`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.FindAvailabilityHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Availability search requires a database connection.")
			return nil
		}

		participantIDs := []uuid.UUID{app.CurrentUserID}
		for _, raw := range findParticipants {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid participant ID %q: %w", raw, err)
			}
			participantIDs = append(participantIDs, id)
		}

		windowStart := time.Now()
		if findFrom != "" {
			parsed, err := time.ParseInLocation("2006-01-02", findFrom, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --from date %q, want YYYY-MM-DD: %w", findFrom, err)
			}
			windowStart = parsed
		}
		windowEnd := windowStart.AddDate(0, 0, findDays)

		prefs, err := buildPreferences()
		if err != nil {
			return err
		}

		query := queries.FindAvailabilityQuery{
			ParticipantIDs: participantIDs,
			WindowStart:    windowStart,
			WindowEnd:      windowEnd,
			MinDuration:    findMinDuration,
			Preferences:    prefs,
		}

		result, err := app.FindAvailabilityHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.ParticipantsWithCalendarData == 0 {
			fmt.Fprintln(out, "No calendar data available; suggesting common meeting times.")
		} else {
			fmt.Fprintf(out, "Calendar data pooled from %d of %d participants.\n",
				result.ParticipantsWithCalendarData, result.ParticipantsRequested)
		}
		for _, failure := range result.FetchReport.Failed {
			fmt.Fprintf(out, "  warning: could not read calendar for %s: %v\n",
				failure.ParticipantID, failure.Err)
		}

		if len(result.Slots) == 0 {
			fmt.Fprintln(out, "No slots found in the requested window.")
			return nil
		}

		fmt.Fprintf(out, "Suggested slots (%d):\n", len(result.Slots))
		for i, slot := range result.Slots {
			fmt.Fprintf(out, "  %d. %s - %s  (%d min, score %d)\n",
				i+1,
				slot.Start.Format("Mon Jan 2 15:04"),
				slot.End.Format("15:04"),
				slot.DurationMin,
				slot.Score,
			)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				for _, reason := range slot.Reasons {
					fmt.Fprintf(out, "       - %s\n", reason)
				}
			}
		}
		return nil
	},
}

func buildPreferences() (*domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	if findTimeOfDay != "" {
		tod := domain.TimeOfDay(findTimeOfDay)
		if !tod.IsValid() {
			return nil, fmt.Errorf("invalid --prefer value %q, want morning, afternoon, evening, or none", findTimeOfDay)
		}
		prefs.PreferredTimeOfDay = tod
	}
	prefs.PreferWeekends = findPreferWeekends
	if findAllowEarly {
		prefs.AvoidEarlyMorning = false
	}
	if findAllowLate {
		prefs.AvoidLateNight = false
	}

	for _, name := range findPreferredDays {
		day, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		prefs.PreferredDaysOfWeek = append(prefs.PreferredDaysOfWeek, day)
	}

	return &prefs, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

func init() {
	findCmd.Flags().StringSliceVarP(&findParticipants, "with", "w", nil, "participant IDs to pool busy time from")
	findCmd.Flags().StringVar(&findFrom, "from", "", "window start date (YYYY-MM-DD, default today)")
	findCmd.Flags().IntVar(&findDays, "days", 7, "window length in days")
	findCmd.Flags().DurationVar(&findMinDuration, "min-duration", 30*time.Minute, "minimum slot length")
	findCmd.Flags().StringVar(&findTimeOfDay, "prefer", "", "preferred time of day (morning, afternoon, evening)")
	findCmd.Flags().BoolVar(&findPreferWeekends, "prefer-weekends", false, "boost weekend slots")
	findCmd.Flags().StringSliceVar(&findPreferredDays, "prefer-days", nil, "preferred days of the week")
	findCmd.Flags().BoolVar(&findAllowEarly, "allow-early", false, "do not penalize slots before 09:00")
	findCmd.Flags().BoolVar(&findAllowLate, "allow-late", false, "do not penalize slots at or after 21:00")
}
