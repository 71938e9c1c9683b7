// Package database provides connection setup for MariaDB and Redis.
// Both connections are created once at startup and shared across the
// application via dependency injection. This package owns the connection
// lifecycle (open, configure pool, wait for readiness, migrate).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/datepicker/internal/config"
)

// readiness bounds how long startup waits for a dependency that may still
// be booting next to the picker server (compose, k8s init order).
type readiness struct {
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
	timeout    time.Duration
}

var (
	mariadbReadiness = readiness{attempts: 10, backoff: time.Second, maxBackoff: 30 * time.Second, timeout: 5 * time.Second}
	redisReadiness   = readiness{attempts: 5, backoff: 500 * time.Millisecond, maxBackoff: 5 * time.Second, timeout: 2 * time.Second}
)

// wait calls ping until it succeeds, doubling the pause between attempts.
// It returns the last ping error once the attempts are spent.
func (r readiness) wait(name string, ping func(context.Context) error) error {
	backoff := r.backoff
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err = ping(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == r.attempts {
			break
		}

		slog.Warn(name+" not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.attempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", err),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, r.maxBackoff)
	}
	return fmt.Errorf("%s not ready after %d attempts: %w", name, r.attempts, err)
}

// NewMariaDB opens the pool that backs the widget store, waits until the
// server answers and logs its version.
func NewMariaDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := mariadbReadiness.wait("mariadb", db.PingContext); err != nil {
		db.Close()
		return nil, err
	}

	var version string
	if err := db.QueryRow("SELECT VERSION()").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading mariadb version: %w", err)
	}
	slog.Info("mariadb ready",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name),
		slog.String("server_version", version),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return db, nil
}
