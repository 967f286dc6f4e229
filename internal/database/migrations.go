package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// RunMigrations applies all pending migrations found in migrationsFS
func RunMigrations(ctx context.Context, db *sql.DB, migrationsFS fs.FS, logger *zap.Logger) error {
	if err := prepareGoose(migrationsFS); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...")

	if err := goose.UpContext(ctx, db, "."); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}

// MigrationState describes one migration file and whether it has been applied
type MigrationState struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// GetMigrationStatus reports the applied/pending state of every migration
func GetMigrationStatus(ctx context.Context, db *sql.DB, migrationsFS fs.FS) ([]MigrationState, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrationsFS)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	states := make([]MigrationState, 0, len(results))
	for _, r := range results {
		states = append(states, MigrationState{
			Version:   r.Source.Version,
			Source:    r.Source.Path,
			Applied:   r.State == goose.StateApplied,
			AppliedAt: r.AppliedAt,
		})
	}
	return states, nil
}

// CurrentVersion returns the newest applied migration version
func CurrentVersion(ctx context.Context, db *sql.DB, migrationsFS fs.FS) (int64, error) {
	if err := prepareGoose(migrationsFS); err != nil {
		return 0, err
	}

	return goose.GetDBVersionContext(ctx, db)
}

func prepareGoose(migrationsFS fs.FS) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
