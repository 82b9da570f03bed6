package repositories

import (
	"context"
	"database/sql"
	"drone-dispatch-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLOrderStore implements ports.OrderStore on database/sql. It works
// against both drivers wired in platform/db; queries are written with `?`
// placeholders and rebound to `$N` for postgres.
type SQLOrderStore struct {
	db       *sql.DB
	postgres bool
}

func NewSQLOrderStore(db *sql.DB, driver string) *SQLOrderStore {
	return &SQLOrderStore{db: db, postgres: driver == "postgres"}
}

func (s *SQLOrderStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const insertOrder = `
INSERT INTO orders (order_number, customer_address, delivery_lng, delivery_lat,
                    requirements, status, assigned_drone_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLOrderStore) Create(ctx context.Context, order *domain.Order) error {
	return s.createTx(ctx, s.db, order)
}

func (s *SQLOrderStore) createTx(ctx context.Context, db execer, order *domain.Order) error {
	req, err := json.Marshal(order.Requirements)
	if err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}

	_, err = db.ExecContext(ctx, s.rebind(insertOrder),
		order.OrderNumber, order.CustomerAddress,
		order.Delivery.Lng, order.Delivery.Lat,
		string(req), string(order.Status), order.AssignedDroneID, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}
	return nil
}

const selectOrder = `
SELECT order_number, customer_address, delivery_lng, delivery_lat,
       requirements, status, assigned_drone_id, created_at,
       dispatched_at, arrived_at, collected_at, completed_at
FROM orders`

func (s *SQLOrderStore) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectOrder+` WHERE order_number = ?`), orderNumber)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderNumber, err)
	}
	return order, nil
}

func (s *SQLOrderStore) ListQueued(ctx context.Context) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(selectOrder+` WHERE status = ? ORDER BY created_at ASC`),
		string(domain.OrderQueued))
	if err != nil {
		return nil, fmt.Errorf("list queued orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list queued orders: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list queued orders: %w", err)
	}
	return orders, nil
}

// statusColumns maps a status to the timestamp column its transition stamps.
var statusColumns = map[domain.OrderStatus]string{
	domain.OrderInTransit: "dispatched_at",
	domain.OrderArrived:   "arrived_at",
	domain.OrderCollected: "collected_at",
	domain.OrderCompleted: "completed_at",
}

func (s *SQLOrderStore) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus, at time.Time) error {
	query := `UPDATE orders SET status = ? WHERE order_number = ?`
	args := []any{string(status), orderNumber}
	if column, ok := statusColumns[status]; ok {
		query = `UPDATE orders SET status = ?, ` + column + ` = ? WHERE order_number = ?`
		args = []any{string(status), at, orderNumber}
	}

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", orderNumber, err)
	}
	return requireRow(res, orderNumber)
}

func (s *SQLOrderStore) AssignDrone(ctx context.Context, orderNumber, droneID string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE orders SET assigned_drone_id = ? WHERE order_number = ?`), droneID, orderNumber)
	if err != nil {
		return fmt.Errorf("assign drone to order %s: %w", orderNumber, err)
	}
	return requireRow(res, orderNumber)
}

func requireRow(res sql.Result, orderNumber string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order %s: %w", orderNumber, err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", orderNumber, domain.ErrOrderNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order        domain.Order
		requirements string
		status       string
		dispatched   sql.NullTime
		arrived      sql.NullTime
		collected    sql.NullTime
		completed    sql.NullTime
	)

	err := row.Scan(&order.OrderNumber, &order.CustomerAddress,
		&order.Delivery.Lng, &order.Delivery.Lat,
		&requirements, &status, &order.AssignedDroneID, &order.CreatedAt,
		&dispatched, &arrived, &collected, &completed)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(requirements), &order.Requirements); err != nil {
		return nil, fmt.Errorf("order %s: decode requirements: %w", order.OrderNumber, err)
	}
	order.Status = domain.OrderStatus(status)
	order.DispatchedAt = timePtr(dispatched)
	order.ArrivedAt = timePtr(arrived)
	order.CollectedAt = timePtr(collected)
	order.CompletedAt = timePtr(completed)
	return &order, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
