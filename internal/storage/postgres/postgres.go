// Package postgres stores trainers in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/config"
)

// Pool wraps a pgx connection pool with health-check and lifecycle methods.
type Pool struct {
	pool *pgxpool.Pool
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	return pc, nil
}

// NewPool connects to the database in cfg. Zero pool limits keep the pgx
// defaults.
//
// Postcondition: Returns a pinged Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Open migrates the schema when cfg.AutoMigrate is set, then connects.
//
// Postcondition: on success the trainers table exists if AutoMigrate is set
// and the caller must Close the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	start := time.Now()
	if cfg.AutoMigrate {
		if err := Migrate(cfg, logger); err != nil {
			return nil, err
		}
	}
	p, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Bool("migrated", cfg.AutoMigrate),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

// Health checks that the database answers within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
func (p *Pool) Close() { p.pool.Close() }

// DB returns the underlying pgxpool.Pool for repositories.
func (p *Pool) DB() *pgxpool.Pool { return p.pool }
