package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// Connect initializes the connection pool from POSTGRES_URL, honoring an
// optional PG_MAX_CONNS override.
func Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := os.Getenv("POSTGRES_URL")

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PG_MAX_CONNS"); v != "" {
		maxConns, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PG_MAX_CONNS value: %w", err)
		}
		cfg.MaxConns = int32(maxConns)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	DB = pool

	return pool, nil
}

// ClosePool is for graceful shutdown
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}
