package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Store is the opened backend selected by STORE_DRIVER.
type Store struct {
	trivia.Store
	// Pinger is nil for the memory driver.
	Pinger server.Pinger

	closers []func() error
}

// Close releases the backend's connections.
func (s *Store) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

// OpenStore connects to the configured backend, migrating or seeding it as
// the driver requires. On error nothing is left open.
func OpenStore(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*Store, error) {
	s := &Store{}
	if err := s.open(ctx, cfg, logger); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) open(ctx context.Context, cfg *config.App, logger zerolog.Logger) error {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.PoolConnString())
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		if cfg.Postgres.AutoMigrate {
			if err := repository.MigratePostgres(ctx, pool); err != nil {
				return fmt.Errorf("migrate postgres: %w", err)
			}
			logger.Info().Msg("postgres migrations applied")
		}
		s.Store, s.Pinger = repository.NewPostgresStore(pool), pool

	case config.DriverSQLite:
		store, err := repository.OpenSQLite(ctx, cfg.SQLite.DSN)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, store.Close)
		s.Store, s.Pinger = store, store

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		s.closers = append(s.closers, client.Close)
		store := repository.NewRedisStore(client, cfg.Redis.KeyPrefix)
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		if err := store.Seed(ctx); err != nil {
			return err
		}
		s.Store, s.Pinger = store, store

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		s.Store = repository.NewMemoryStore(repository.SeedCategories, repository.SeedQuestions)

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	return nil
}
