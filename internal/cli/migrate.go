package cli

import (
	"context"
	"strconv"
	"time"

	"inventory-api/internal/database"
	"inventory-api/internal/logger"
	"inventory-api/migrations"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command group. It talks to the
// database directly using the DB_* settings, not to the API.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			db, err := openDatabase(cmd.Context(), rootOpts)
			if err != nil {
				return out.Fail(err)
			}
			defer db.Close()

			log := logger.NewCLI(rootOpts.Verbose)
			defer log.Sync()

			if err := database.RunMigrations(cmd.Context(), db.DB().DB, migrations.FS, log); err != nil {
				return out.Fail(err)
			}

			version, err := database.CurrentVersion(cmd.Context(), db.DB().DB, migrations.FS)
			if err != nil {
				return out.Fail(err)
			}
			return out.Message("Database at migration version " + strconv.FormatInt(version, 10))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			db, err := openDatabase(cmd.Context(), rootOpts)
			if err != nil {
				return out.Fail(err)
			}
			defer db.Close()

			states, err := database.GetMigrationStatus(cmd.Context(), db.DB().DB, migrations.FS)
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(states, []string{"VERSION", "SOURCE", "STATE", "APPLIED AT"}, migrationRows(states))
		},
	})

	return cmd
}

func openDatabase(ctx context.Context, opts *RootOptions) (database.Service, error) {
	db, err := database.New(ctx, opts.cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "database unavailable", err)
	}
	return db, nil
}

func migrationRows(states []database.MigrationState) [][]string {
	rows := make([][]string, 0, len(states))
	for _, s := range states {
		state, appliedAt := "pending", "-"
		if s.Applied {
			state = "applied"
			appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{strconv.FormatInt(s.Version, 10), s.Source, state, appliedAt})
	}
	return rows
}
