package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seatplan/seatplan/plan"
	"github.com/seatplan/seatplan/plan/export"
)

var inspectPriority []int

// inspectCmd recomputes quality metrics from a previously exported JSON
// schedule, for auditing schedules mutated outside the pipeline.
var inspectCmd = &cobra.Command{
	Use:   "inspect <schedule.json>",
	Short: "Recompute metrics from an exported schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			logrus.Fatalf("Failed to open schedule: %v", err)
		}
		defer f.Close()

		schedule, err := export.ReadJSON(f)
		if err != nil {
			logrus.Fatalf("Failed to parse schedule: %v", err)
		}
		if err := schedule.CheckCapacity(); err != nil {
			logrus.Warnf("Capacity invariant violated: %v", err)
		}

		var priority map[int]struct{}
		if len(inspectPriority) > 0 {
			priority = make(map[int]struct{}, len(inspectPriority))
			for _, id := range inspectPriority {
				priority[id] = struct{}{}
			}
		}

		m := plan.ComputeMetrics(schedule, schedule.Config, priority)
		m.Print()

		matrix := plan.ContactMatrix(schedule, schedule.Config.Agents)
		stats := plan.ComputeMatrixStats(matrix)
		fmt.Printf("Coverage             : %.1f%% (%d of %d pairs)\n",
			stats.CoverageRate, stats.PairsMet, stats.PossiblePairs)
		fmt.Printf("Max meetings per pair: %d\n", stats.MaxMeetings)
		fmt.Printf("Quality score        : %d/100\n", plan.QualityScore(m, stats))
	},
}

func init() {
	inspectCmd.Flags().IntSliceVar(&inspectPriority, "priority", nil, "Priority agent ids for the sub-population breakdown")
	rootCmd.AddCommand(inspectCmd)
}
