package components

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"slotbook/internal/infra/changefeed"
	"slotbook/internal/infra/db"
	"slotbook/internal/infra/migrations"
	"slotbook/internal/infra/postgres"
	"slotbook/internal/infra/sqlite"
	"slotbook/internal/pkg/config"
	"slotbook/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewChangeHub,
		NewStorage,
	),
)

type Storage struct {
	fx.Out

	Slots    shared.SlotRepository
	Profiles shared.ProfileRepository
}

func NewChangeHub(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *changefeed.Hub {
	hub := changefeed.NewHub(cfg.Agenda.SubscriberBuffer, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// NewStorage opens the store selected by DB_DRIVER. Postgres changes reach
// the hub through LISTEN/NOTIFY, so writes from other instances are seen too.
func NewStorage(lc fx.Lifecycle, cfg config.Config, hub *changefeed.Hub, logger *slog.Logger) (Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		return newPostgresStorage(lc, cfg.DB, hub, logger)
	case config.DriverSQLite:
		return newSQLiteStorage(lc, cfg.DB, hub, logger)
	default:
		return Storage{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
}

func newPostgresStorage(lc fx.Lifecycle, cfg config.DBConfig, hub *changefeed.Hub, logger *slog.Logger) (Storage, error) {
	pool, cleanup, err := db.Connect(cfg)
	if err != nil {
		return Storage{}, err
	}
	listener := postgres.NewListener(pool, hub, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.MigrateOnStart {
				if err := migrate(ctx, db.StdDB(pool), cfg.Driver, logger); err != nil {
					return err
				}
			}
			return listener.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			err := listener.Stop(ctx)
			cleanup()
			return err
		},
	})

	return Storage{
		Slots:    postgres.NewSlotRepository(pool, hub, logger),
		Profiles: postgres.NewProfileRepository(pool, logger),
	}, nil
}

func newSQLiteStorage(lc fx.Lifecycle, cfg config.DBConfig, hub *changefeed.Hub, logger *slog.Logger) (Storage, error) {
	sqlDB, cleanup, err := db.OpenSQLite(cfg)
	if err != nil {
		return Storage{}, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.MigrateOnStart {
				return migrate(ctx, sqlDB, cfg.Driver, logger)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return Storage{
		Slots:    sqlite.NewSlotRepository(sqlDB, hub, logger),
		Profiles: sqlite.NewProfileRepository(sqlDB, logger),
	}, nil
}

func migrate(ctx context.Context, sqlDB *sql.DB, driver string, logger *slog.Logger) error {
	version, err := migrations.Up(ctx, sqlDB, driver, logger)
	if err != nil {
		return err
	}
	logger.Info("database schema ready", "driver", driver, "version", version)
	return nil
}
