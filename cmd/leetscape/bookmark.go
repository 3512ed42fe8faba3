package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var bookmarkUndo bool

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <problem-id>",
	Short: "Bookmark a problem for later",
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

		if err := tracker.Progress.ToggleBookmark(ctx, id, entry.Title, !bookmarkUndo); err != nil {
			fatal("failed to update bookmark", err)
		}

		if bookmarkUndo {
			fmt.Printf("Removed bookmark from %q.\n", entry.Title)
		} else {
			fmt.Printf("Bookmarked %q.\n", entry.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	bookmarkCmd.Flags().BoolVar(&bookmarkUndo, "undo", false, "Remove the bookmark instead")
}
