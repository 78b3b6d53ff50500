package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tetherhq/tether/adapter/cli"
	"github.com/tetherhq/tether/internal/availability/application/queries"
)

var (
	conflictsParticipant string
	conflictsDate        string
	conflictsStart       string
	conflictsEnd         string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Check a proposed time for conflicts",
	Long: `Check whether a participant's calendar has events overlapping a
proposed time. The check is advisory: without calendar data it reports no
conflicts.

Examples:
  tether availability conflicts --date 2026-03-14 --start 18:00 --end 20:00
  tether availability conflicts --participant 7d9e... --date 2026-03-14 --start 09:30 --end 11:00`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CheckConflictsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Conflict checks require a database connection.")
			return nil
		}

		participantID := app.CurrentUserID
		if conflictsParticipant != "" {
			id, err := uuid.Parse(conflictsParticipant)
			if err != nil {
				return fmt.Errorf("invalid participant ID %q: %w", conflictsParticipant, err)
			}
			participantID = id
		}

		date, err := time.ParseInLocation("2006-01-02", conflictsDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", conflictsDate, err)
		}

		query := queries.CheckConflictsQuery{
			ParticipantID:  participantID,
			Date:           date,
			StartTimeOfDay: conflictsStart,
			EndTimeOfDay:   conflictsEnd,
		}

		result, err := app.CheckConflictsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !result.HasConflict {
			fmt.Fprintf(out, "No conflicts on %s between %s and %s.\n",
				date.Format("Mon Jan 2"), conflictsStart, conflictsEnd)
			return nil
		}

		fmt.Fprintf(out, "Found %d conflicting event(s):\n", len(result.Conflicts))
		for _, c := range result.Conflicts {
			label := c.Label
			if label == "" {
				label = "(untitled)"
			}
			fmt.Fprintf(out, "  %s - %s  %s\n",
				c.Start.Format("15:04"), c.End.Format("15:04"), label)
		}
		return nil
	},
}

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsParticipant, "participant", "p", "", "participant ID (default: configured user)")
	conflictsCmd.Flags().StringVar(&conflictsDate, "date", "", "date to check (YYYY-MM-DD)")
	conflictsCmd.Flags().StringVar(&conflictsStart, "start", "", "window start time (HH:MM)")
	conflictsCmd.Flags().StringVar(&conflictsEnd, "end", "", "window end time (HH:MM)")
	_ = conflictsCmd.MarkFlagRequired("date")
	_ = conflictsCmd.MarkFlagRequired("start")
	_ = conflictsCmd.MarkFlagRequired("end")
}
