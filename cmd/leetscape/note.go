package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	noteContent string
	noteTags    []string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage per-problem study notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <problem-id>",
	Short: "Create (or replace) the note for a problem",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid problem id", err)
		}

		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		entry, ok := tracker.Catalog.ByID(id)
		if !ok {
			fatal("unknown problem", fmt.Errorf("id %d is not in the catalog", id))
		}

		if err := tracker.Notes.Create(ctx, uid, id, entry.Title, noteContent, noteTags); err != nil {
			fatal("failed to save note", err)
		}
		fmt.Printf("Note saved for %q.\n", entry.Title)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <problem-id>",
	Short: "Rewrite the content and tags of an existing note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid problem id", err)
		}

		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		if err := tracker.Notes.Update(ctx, uid, id, noteContent, noteTags); err != nil {
			fatal("failed to update note", err)
		}
		fmt.Printf("Note for problem %d updated.\n", id)
	},
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <problem-id>",
	Short: "Delete the note for a problem",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid problem id", err)
		}

		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		if err := tracker.Notes.Delete(ctx, uid, id); err != nil {
			fatal("failed to delete note", err)
		}
		fmt.Printf("Note for problem %d deleted.\n", id)
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <problem-id>",
	Short: "Print the note for a problem",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("invalid problem id", err)
		}

		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		note, err := tracker.Notes.GetOne(ctx, uid, id)
		if err != nil {
			fatal("failed to load note", err)
		}
		if note == nil {
			fmt.Printf("No note for problem %d.\n", id)
			return
		}

		fmt.Printf("%s (updated %s)\n", note.ProblemTitle, note.UpdatedAt.Format("2006-01-02 15:04"))
		if len(note.Tags) > 0 {
			fmt.Printf("tags: %s\n", strings.Join(note.Tags, ", "))
		}
		fmt.Println()
		fmt.Println(note.Content)
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes, most recently updated first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		records, err := tracker.Notes.GetAll(ctx, uid)
		if err != nil {
			fatal("failed to load notes", err)
		}

		for _, note := range records {
			fmt.Printf("%4d  %-40s  %s\n", note.ProblemID, note.ProblemTitle,
				note.UpdatedAt.Format("2006-01-02 15:04"))
		}
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd, noteEditCmd, noteRmCmd, noteShowCmd, noteListCmd)

	for _, cmd := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		cmd.Flags().StringVarP(&noteContent, "content", "c", "", "Note content")
		cmd.Flags().StringSliceVarP(&noteTags, "tag", "t", nil, "Note tags (repeatable)")
		cmd.MarkFlagRequired("content")
	}
}
