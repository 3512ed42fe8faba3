package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	leetscape "github.com/leetscape/leetscape"
	"github.com/leetscape/leetscape/pkg/catalog"
)

var (
	listJSON       bool
	listSearch     string
	listDifficulty string
	listSort       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog problems with your progress",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tracker, _ := openTracker(ctx)
		defer tracker.Close()

		entries := leetscape.FilterAndSort(tracker.Catalog, catalog.Criteria{
			Search:     listSearch,
			Difficulty: listDifficulty,
			Sort:       catalog.SortKey(listSort),
		})

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(entries); err != nil {
				fatal("failed to encode JSON", err)
			}
			return
		}

		for _, e := range entries {
			markers := ""
			if tracker.Progress.Solved(e.ID) {
				markers += " [solved]"
			}
			if tracker.Progress.Bookmarked(e.ID) {
				markers += " [bookmarked]"
			}
			fmt.Printf("%4d  %-8s  %s%s\n", e.ID, strings.ToLower(string(e.Difficulty)), e.Title, markers)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Match title or tags (case-insensitive)")
	listCmd.Flags().StringVar(&listDifficulty, "difficulty", "all", "Filter by difficulty: Easy, Medium, Hard or all")
	listCmd.Flags().StringVar(&listSort, "sort", "id", "Sort by: id, title, difficulty or acceptance")
}
