// Package main is the entry point for the TendATree server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tendatree/internal/config"
	"tendatree/internal/pkg/db"
	"tendatree/internal/pkg/lock"
	"tendatree/internal/repository"
	"tendatree/internal/scheduler"
	"tendatree/internal/server"
	"tendatree/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	treeRepo := repository.NewTreeRepository(dbPool.Pool)
	careRepo := repository.NewCareLogRepository(dbPool.Pool)
	eventRepo := repository.NewTreeEventRepository(dbPool.Pool)
	speciesRepo := repository.NewSpeciesRepository(dbPool.Pool)

	// Initialize tree lock
	treeLock := lock.NewTreeLock()

	// Initialize services
	accountService := service.NewAccountService(userRepo, treeRepo, speciesRepo, cfg.Evaluation.DefaultSpecies)
	treeService := service.NewTreeService(treeRepo, careRepo, eventRepo, speciesRepo, treeLock)
	paramsService := service.NewParamsService(speciesRepo)

	// Initialize the evaluation scheduler
	sched := scheduler.New(treeRepo, careRepo, eventRepo, treeLock, cfg.Evaluation.Interval, nil)
	sched.Start(ctx)

	// Initialize HTTP server
	srv := server.New(cfg.Server.Addr, accountService, treeService, paramsService, sched)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown: drain HTTP, then let any in-flight evaluation
	// finish its current tree.
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	sched.Stop()
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes idempotent database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			api_token VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_api_token ON users(api_token);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: species catalog and care parameters
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tree_species (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS care_parameters (
			id BIGSERIAL PRIMARY KEY,
			species_id BIGINT NOT NULL REFERENCES tree_species(id) ON DELETE CASCADE,
			param_name VARCHAR(50) NOT NULL,
			param_value TEXT NOT NULL,
			UNIQUE (species_id, param_name)
		);
		INSERT INTO tree_species (name, description) VALUES
			('Oak', 'A sturdy classic that rewards steady care.'),
			('Maple', 'Bright foliage, loves sunlight.'),
			('Willow', 'Thrives near water.')
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: species tables created")

	// Migration 3: trees table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS trees (
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			species_id BIGINT NOT NULL REFERENCES tree_species(id),
			growth_stage VARCHAR(20) NOT NULL DEFAULT 'seedling',
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_trees_owner ON trees(owner_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: trees table created")

	// Migration 4: care logs (append-only)
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS care_logs (
			id BIGSERIAL PRIMARY KEY,
			tree_id BIGINT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			action VARCHAR(20) NOT NULL,
			actor VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_care_logs_tree_time ON care_logs(tree_id, created_at);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: care_logs table created")

	// Migration 5: tree events (append-only narrative log)
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tree_events (
			id BIGSERIAL PRIMARY KEY,
			tree_id BIGINT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			event_type VARCHAR(100) NOT NULL,
			description TEXT NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_tree_events_tree_time ON tree_events(tree_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: tree_events table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
