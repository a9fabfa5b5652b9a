/*
stockdb provides access to the stock_data Postgres table: executing
generated queries, fetching price series for tools, and bulk-loading the
historical CSV.
*/
package stockdb

import (
	"context"
	"fmt"
	"time"

	// Packages
	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	stockbot "github.com/mutablelogic/go-stockbot"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config holds the Postgres connection parameters
type Config struct {
	Host     string
	Name     string
	User     string
	Password string
}

// DB wraps a connection pool to the stock database
type DB struct {
	pool *pgxpool.Pool
}

// PricePoint is one row of a price series
type PricePoint struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Ticker string    `json:"ticker,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// applicationName identifies this process in pg_stat_activity
const applicationName = "stockbot"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Open connects to the database and verifies the connection
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Host == "" || cfg.Name == "" || cfg.User == "" {
		return nil, stockbot.ErrBadParameter.With("database host, name and user are required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, err
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{pool: pool}, nil
}

// Close releases the connection pool
func (db *DB) Close() {
	db.pool.Close()
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ConnString returns the connection string for the config
func (cfg Config) ConnString() string {
	return fmt.Sprintf("host=%s dbname=%s user=%s password=%s", cfg.Host, cfg.Name, cfg.User, cfg.Password)
}
