package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/backend/migrations"
)

func newMigrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every pending schema migration to the database.
Already applied migrations are skipped.

Example usage:
  tripctl migrate --database-url postgres://localhost/trips`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return errors.New("database address is not set (use --database-url or DATABASE_URL)")
			}
			// Migration progress is always reported.
			log := logger(cmd)
			if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
				log = newLogger(cmd.ErrOrStderr(), slog.LevelInfo)
			}
			return migrations.Up(cmd.Context(), dsn, log)
		},
	}
	cmd.Flags().StringVar(&dsn, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string")
	return cmd
}
