package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/lib/pq"
)

const orderColumns = `id, items, total_usd, shipping_fee_ars, shipping_fee_usd,
customer_name, customer_email, address, delivery_date, region, payment_method, status, created_at`

// CreateOrder records the order and its order_created outbox event in one
// transaction, so the event cannot be lost between the two writes.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		itemsJSON,
		order.TotalUSD,
		order.ShippingFeeARS,
		order.ShippingFeeUSD,
		order.CustomerName,
		order.CustomerEmail,
		order.Address,
		order.DeliveryDate,
		string(order.Region),
		string(order.PaymentMethod),
		string(order.Status),
		order.CreatedAt,
	)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	if err := insertOutboxEvent(ctx, tx, order.ID, "order_created", orderEventPayload(order)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus advances the status under the monotonic progression rule
// and records an order_status_changed outbox event in the same transaction.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	if !domain.CanAdvanceStatus(domain.OrderStatus(current), status) {
		return ErrStatusRegression
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, string(status)); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	payload, _ := json.Marshal(map[string]string{
		"order_id": id,
		"from":     current,
		"to":       string(status),
	})
	if err := insertOutboxEvent(ctx, tx, id, "order_status_changed", payload); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		itemsJSON []byte
		region    string
		method    string
		status    string
	)
	err := row.Scan(
		&order.ID,
		&itemsJSON,
		&order.TotalUSD,
		&order.ShippingFeeARS,
		&order.ShippingFeeUSD,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.Address,
		&order.DeliveryDate,
		&region,
		&method,
		&status,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	order.Region = domain.Region(region)
	order.PaymentMethod = domain.PaymentMethod(method)
	order.Status = domain.OrderStatus(status)

	return &order, nil
}

func orderEventPayload(order *domain.Order) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"order_id":       order.ID,
		"total_usd":      order.TotalUSD,
		"payment_method": order.PaymentMethod,
		"region":         order.Region,
		"created_at":     order.CreatedAt,
	})
	return payload
}
