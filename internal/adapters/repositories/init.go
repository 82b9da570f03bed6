// Package repositories persists orders behind ports.OrderStore.
package repositories

import (
	"context"
	"database/sql"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
    order_number      TEXT PRIMARY KEY,
    customer_address  TEXT NOT NULL DEFAULT '',
    delivery_lng      REAL NOT NULL,
    delivery_lat      REAL NOT NULL,
    requirements      TEXT NOT NULL DEFAULT '{}',
    status            TEXT NOT NULL,
    assigned_drone_id TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMP NOT NULL,
    dispatched_at     TIMESTAMP,
    arrived_at        TIMESTAMP,
    collected_at      TIMESTAMP,
    completed_at      TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders (status, created_at);
`

// InitSchema creates the order tables if missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ordersSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// seedOrder is the demo-data file shape.
type seedOrder struct {
	OrderNumber     string              `json:"orderNumber"`
	CustomerAddress string              `json:"customerAddress"`
	Delivery        geo.Position        `json:"delivery"`
	Requirements    domain.Requirements `json:"requirements"`
}

// SeedDemoOrders loads queued demo orders from a JSON file into an empty
// orders table. A non-empty table is left untouched.
func SeedDemoOrders(ctx context.Context, store *SQLOrderStore, path string) error {
	db := store.db
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	var seeds []seedOrder
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("seed orders: decode %s: %w", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i, s := range seeds {
		// Staggered timestamps keep the file order as the queue order.
		order := &domain.Order{
			OrderNumber:     s.OrderNumber,
			CustomerAddress: s.CustomerAddress,
			Delivery:        s.Delivery,
			Requirements:    s.Requirements,
			Status:          domain.OrderQueued,
			CreatedAt:       now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.createTx(ctx, tx, order); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	return nil
}
