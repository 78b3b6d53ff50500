package availability

import "github.com/spf13/cobra"

// Cmd is the availability command group.
var Cmd = &cobra.Command{
	Use:   "availability",
	Short: "Find times that work",
	Long:  `Search for free slots across participants and check proposed times for conflicts.`,
}

func init() {
	Cmd.AddCommand(findCmd)
	Cmd.AddCommand(conflictsCmd)
}
