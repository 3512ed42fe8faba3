package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leetscape/leetscape/pkg/core"
)

var (
	statsJSON bool
	statsTopN int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solved counts per difficulty and company focus",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tracker, _ := openTracker(ctx)
		defer tracker.Close()

		breakdown := tracker.DifficultyBreakdown()
		focus := tracker.CompanyFocus(statsTopN)

		if statsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(map[string]any{
				"difficulty": breakdown,
				"companies":  focus,
			}); err != nil {
				fatal("failed to encode JSON", err)
			}
			return
		}

		solved, bookmarked := tracker.Progress.Counts()
		fmt.Printf("Solved %d, bookmarked %d\n\n", solved, bookmarked)

		for _, d := range core.Difficulties {
			tally := breakdown[d]
			fmt.Printf("%-8s %d/%d\n", d, tally.Solved, tally.Total)
		}

		fmt.Println()
		for _, c := range focus {
			fmt.Printf("%-12s %d\n", c.Company, c.Count)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	statsCmd.Flags().IntVar(&statsTopN, "top", 4, "Number of companies to rank")
}
