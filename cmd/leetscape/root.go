package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	leetscape "github.com/leetscape/leetscape"
	"github.com/leetscape/leetscape/pkg/core"
	"github.com/leetscape/leetscape/pkg/profile"
)

var (
	flagVerbose bool
	flagUser    string
	flagData    string
	flagAdapter string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leetscape",
	Short: "A local coding-practice tracker",
	Long: `Leetscape tracks your coding-practice progress: solved and bookmarked
problems, per-problem study notes, and aggregate statistics, persisted as
plain documents you can inspect and sync yourself.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; explicit values and flags win.
		_ = godotenv.Load()

		level := slog.LevelInfo
		if flagVerbose || os.Getenv("LEETSCAPE_VERBOSE") != "" {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id (defaults to $LEETSCAPE_USER)")
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "d", "", "Data directory or database path")
	rootCmd.PersistentFlags().StringVarP(&flagAdapter, "adapter", "a", "", "Storage adapter: fs or sqlite (defaults to $LEETSCAPE_ADAPTER or fs)")
}

func currentUser() string {
	if flagUser != "" {
		return flagUser
	}
	return os.Getenv("LEETSCAPE_USER")
}

func dataPath() string {
	if flagData != "" {
		return flagData
	}
	if env := os.Getenv("LEETSCAPE_DATA"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		fatal("failed to get working directory", err)
	}
	if found, err := leetscape.FindDataDir(wd); err == nil {
		return found
	}
	return filepath.Join(wd, ".leetscape")
}

func adapterName() string {
	if flagAdapter != "" {
		return flagAdapter
	}
	if env := os.Getenv("LEETSCAPE_ADAPTER"); env != "" {
		return env
	}
	return "fs"
}

// openTracker builds a signed-in tracker and loads the progress snapshot.
// CLI invocations are one-shot, so the identity and refresh are driven
// directly instead of running the background refresh loop.
func openTracker(ctx context.Context) (*leetscape.Tracker, string) {
	uid := currentUser()
	if uid == "" {
		fatal("no user", fmt.Errorf("set --user or LEETSCAPE_USER"))
	}

	tracker, err := leetscape.New(dataPath(),
		leetscape.WithAdapter(adapterName()),
		leetscape.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("failed to open tracker", err)
	}

	tracker.Progress.SetUser(uid)
	tracker.Progress.Refresh(ctx)
	return tracker, uid
}

func signIn(ctx context.Context, tracker *leetscape.Tracker, uid string) *profile.Service {
	tracker.Profile.HandleSignIn(ctx, &core.Identity{
		UID:         uid,
		DisplayName: uid,
	})
	return tracker.Profile
}
