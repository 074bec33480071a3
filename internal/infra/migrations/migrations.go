// Package migrations applies the embedded schema with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"slotbook/internal/pkg/config"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up applies all pending migrations for driver and returns the resulting version.
func Up(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) (int64, error) {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return 0, err
	}
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		return 0, fmt.Errorf("open %s migrations: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied",
			slog.String("source", r.Source.Path),
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get migration version: %w", err)
	}
	return version, nil
}

func dialectFor(driver string) (goose.Dialect, string, error) {
	switch driver {
	case config.DriverPostgres:
		return goose.DialectPostgres, "postgres", nil
	case config.DriverSQLite:
		return goose.DialectSQLite3, "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported driver %q", driver)
	}
}
