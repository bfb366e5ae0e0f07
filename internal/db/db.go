// Package db opens the Postgres database that keeps the tutor's reminders
// and creates its tables on startup.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"cantinho/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const pingTimeout = 5 * time.Second

// Pool defaults for a single-tutor back office; config overrides each one.
const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 300
	defaultConnMaxIdleTime = 60
)

// DSN builds a postgres URL from cfg. Credentials are escaped, so passwords
// may contain '@' or '/'.
func DSN(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	database, err := NewWithDSN(ctx, DSN(cfg))
	if err != nil {
		return nil, err
	}
	configurePool(database.DB, cfg)
	return database, nil
}

// NewWithDSN opens the database behind dsn and waits up to pingTimeout for
// it to answer.
func NewWithDSN(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	database := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.InfoContext(ctx, "database connected")
	return database, nil
}

func configurePool(sqlDB *sql.DB, cfg config.DatabaseConfig) {
	maxOpen := orDefault(cfg.MaxOpenConns, defaultMaxOpenConns)
	maxIdle := orDefault(cfg.MaxIdleConns, defaultMaxIdleConns)
	lifetime := orDefault(cfg.ConnMaxLifetime, defaultConnMaxLifetime)
	idleTime := orDefault(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(time.Duration(lifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(idleTime) * time.Second)

	slog.Debug("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", lifetime,
		"conn_max_idle_time_seconds", idleTime,
	)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func Close(database *bun.DB) {
	if database != nil {
		database.Close()
	}
}

// RunMigrations creates the tables behind models when they are missing.
// Existing tables are left as they are.
func RunMigrations(ctx context.Context, database *bun.DB, models ...interface{}) error {
	for _, model := range models {
		if _, err := database.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	slog.InfoContext(ctx, "database migrations completed", "tables", len(models))
	return nil
}
