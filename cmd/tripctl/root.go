package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Commands are constructed fresh on each
// call so flag state does not leak between invocations.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tripctl",
		Short: "Trip planner command line tool",
		Long: `tripctl plans trips with the itinerary service from the terminal,
exports tables as PDF reports, and manages the database schema.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(newChatCmd(), newExportCmd(), newMigrateCmd())
	return root
}

// logger writes text logs to the command's error stream; debug level when
// --verbose is set.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return newLogger(cmd.ErrOrStderr(), level)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
