package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"slotbook/internal/infra/db"
	"slotbook/internal/infra/migrations"
	"slotbook/internal/pkg/config"
)

// RunMigrations applies the embedded schema for the configured driver on a
// short-lived connection.
func RunMigrations(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (int64, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, cleanup, err := db.Connect(cfg)
		if err != nil {
			return 0, err
		}
		defer cleanup()
		sqlDB := db.StdDB(pool)
		defer sqlDB.Close()
		return migrations.Up(ctx, sqlDB, cfg.Driver, logger)
	case config.DriverSQLite:
		sqlDB, cleanup, err := db.OpenSQLite(cfg)
		if err != nil {
			return 0, err
		}
		defer cleanup()
		return migrations.Up(ctx, sqlDB, cfg.Driver, logger)
	default:
		return 0, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
