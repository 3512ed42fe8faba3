package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var solveUndo bool

var solveCmd = &cobra.Command{
	Use:   "solve <problem-id>",
	Short: "Mark a problem as solved",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid problem id", err)
		}

		ctx := context.Background()
		tracker, _ := openTracker(ctx)
		defer tracker.Close()

		entry, ok := tracker.Catalog.ByID(id)
		if !ok {
			fatal("unknown problem", fmt.Errorf("id %d is not in the catalog", id))
		}

		if err := tracker.Progress.MarkSolved(ctx, id, entry.Title, !solveUndo); err != nil {
			fatal("failed to update progress", err)
		}

		if solveUndo {
			fmt.Printf("Unmarked %q.\n", entry.Title)
		} else {
			fmt.Printf("Solved %q.\n", entry.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolVar(&solveUndo, "undo", false, "Mark the problem as unsolved instead")
}
