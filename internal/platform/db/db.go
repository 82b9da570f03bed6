// Package db opens the order database under the configured driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects and verifies the connection. Supported drivers: "sqlite"
// (modernc, CGO-free) and "postgres" (pgx through database/sql).
func Open(driver, dsn string) (*sql.DB, error) {
	name := ""
	switch driver {
	case "sqlite":
		name = "sqlite"
	case "postgres":
		name = "pgx"
	default:
		return nil, fmt.Errorf("open db: unsupported driver %q", driver)
	}

	conn, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open db: ping: %w", err)
	}

	if driver == "sqlite" {
		// The modernc driver serializes writes itself; one writer avoids
		// SQLITE_BUSY under the scheduler and API writing concurrently.
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}
