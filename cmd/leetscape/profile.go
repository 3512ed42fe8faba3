package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		svc := signIn(ctx, tracker, uid)
		current := svc.Current()
		if current == nil {
			fatal("no profile", fmt.Errorf("profile for %s could not be loaded", uid))
		}

		fmt.Printf("uid:       %s\n", current.UID)
		fmt.Printf("username:  %s\n", current.CustomUsername)
		fmt.Printf("created:   %s\n", current.CreatedAt.Format("2006-01-02"))
		fmt.Printf("last seen: %s\n", current.LastLoginAt.Format("2006-01-02 15:04"))
		if svc.NeedsOnboarding() {
			fmt.Println()
			fmt.Println("Pick a username with: leetscape profile set-username <name>")
		}
	},
}

var profileSetUsernameCmd = &cobra.Command{
	Use:   "set-username <name>",
	Short: "Set the custom username (3-20 letters, digits or underscores)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tracker, uid := openTracker(ctx)
		defer tracker.Close()

		svc := signIn(ctx, tracker, uid)
		if err := svc.SetUsername(ctx, args[0]); err != nil {
			fatal("failed to set username", err)
		}
		fmt.Printf("Username set to %q.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileSetUsernameCmd)
}
