package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kidcare/afterhours/internal/analytics"
	"github.com/kidcare/afterhours/internal/assessment"
	"github.com/kidcare/afterhours/internal/protocol"
	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/kidcare/afterhours/internal/shared/database"
)

// stores bundles the repositories for the configured storage driver.
type stores struct {
	Protocols   protocol.Repository
	Assessments assessment.Repository
	Analytics   analytics.Repository

	health func(ctx context.Context) error
	close  func()
}

func (s *stores) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

func (s *stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStores connects to the configured backend and applies its schema.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memoryStores(), nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("sqlite store opened", "path", cfg.Storage.SQLitePath)
		return sqliteStores(db), nil

	case config.DriverPostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		applied, err := database.Migrate(ctx, db.Pool, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		logger.Info("postgres store ready", "host", cfg.Database.Host, "migrations_applied", len(applied))
		return &stores{
			Protocols:   protocol.NewPostgresRepository(db.Pool),
			Assessments: assessment.NewPostgresRepository(db.Pool),
			Analytics:   analytics.NewPostgresRepository(db.Pool),
			health:      db.Health,
			close:       db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func memoryStores() *stores {
	return &stores{
		Protocols:   protocol.NewMemoryRepository(),
		Assessments: assessment.NewMemoryRepository(),
		Analytics:   analytics.NewMemoryRepository(),
	}
}

func sqliteStores(db *sql.DB) *stores {
	return &stores{
		Protocols:   protocol.NewSQLiteRepository(db),
		Assessments: assessment.NewSQLiteRepository(db),
		Analytics:   analytics.NewSQLiteRepository(db),
		health:      db.PingContext,
		close:       func() { db.Close() },
	}
}

// seedProtocols loads the reference protocols into an empty store.
func seedProtocols(ctx context.Context, s *stores, logger *slog.Logger) error {
	n, err := protocol.Seed(ctx, s.Protocols, protocol.ReferenceProtocols())
	if err != nil {
		return fmt.Errorf("seeding protocols: %w", err)
	}
	if n > 0 {
		logger.Info("reference protocols seeded", "count", n)
	}
	return nil
}
