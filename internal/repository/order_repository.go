package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsm-commerce/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order for this payment already exists")
	ErrInvalidOrderStatus = errors.New("order status is not allowed")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByExternalID(ctx context.Context, orderID string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	UpdateStatusByExternalID(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Orders are read joined with their lines; an order without lines yields a
// single row with NULL line columns.
const orderSelect = `
	SELECT o.id, o.order_id, o.amount, o.email, o.status, o.user_id, o.created_at, o.updated_at,
	       i.id, i.product_id, i.quantity, i.product_name
	FROM orders o
	LEFT JOIN order_items i ON i.order_id = o.id
`

func loadOrders(ctx context.Context, q querier, where string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := q.QueryContext(ctx, orderSelect+where+` ORDER BY o.created_at DESC, o.id, i.position`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	byID := map[uuid.UUID]*domain.Order{}
	for rows.Next() {
		var (
			order       domain.Order
			userID      uuid.NullUUID
			lineID      uuid.NullUUID
			productID   sql.NullString
			quantity    sql.NullInt64
			productName sql.NullString
		)
		err := rows.Scan(
			&order.ID,
			&order.OrderID,
			&order.Amount,
			&order.Email,
			&order.Status,
			&userID,
			&order.CreatedAt,
			&order.UpdatedAt,
			&lineID,
			&productID,
			&quantity,
			&productName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		current, seen := byID[order.ID]
		if !seen {
			current = &order
			current.Products = []domain.OrderLine{}
			if userID.Valid {
				id := userID.UUID
				current.UserID = &id
			}
			byID[order.ID] = current
			orders = append(orders, current)
		}

		if lineID.Valid {
			current.Products = append(current.Products, domain.OrderLine{
				ID:          lineID.UUID,
				ProductID:   productID.String,
				Quantity:    quantity.Int64,
				ProductName: productName.String,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func loadOrder(ctx context.Context, q querier, where string, args ...interface{}) (*domain.Order, error) {
	orders, err := loadOrders(ctx, q, where, args...)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// Create inserts the order and its lines atomically. A second order for the
// same payment intent yields ErrOrderAlreadyExists.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO orders (id, order_id, amount, email, status, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.ExecContext(
			ctx,
			query,
			order.ID,
			order.OrderID,
			order.Amount,
			order.Email,
			string(order.Status),
			order.UserID,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return ErrOrderAlreadyExists
			case isCheckViolation(err):
				return ErrInvalidOrderStatus
			}
			return fmt.Errorf("failed to create order: %w", err)
		}

		for position, line := range order.Products {
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO order_items (id, order_id, product_id, quantity, product_name, position) VALUES ($1, $2, $3, $4, $5, $6)`,
				line.ID,
				order.ID,
				line.ProductID,
				line.Quantity,
				line.ProductName,
				position,
			)
			if err != nil {
				return fmt.Errorf("failed to create order line: %w", err)
			}
		}

		return nil
	})
}

// FindByID retrieves an order with its lines
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return loadOrder(ctx, r.db, ` WHERE o.id = $1`, id)
}

// FindByExternalID retrieves the order reconciled from a payment intent
func (r *orderRepository) FindByExternalID(ctx context.Context, orderID string) (*domain.Order, error) {
	return loadOrder(ctx, r.db, ` WHERE o.order_id = $1`, orderID)
}

// ListByEmail returns a purchaser's orders, newest first. The email is
// expected to be trimmed and lowercased.
func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return loadOrders(ctx, r.db, ` WHERE LOWER(o.email) = $1`, email)
}

// ListAll returns every order, newest first
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return loadOrders(ctx, r.db, ``)
}

func (r *orderRepository) updateStatus(ctx context.Context, column string, key interface{}, status domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE `+column+` = $1`, key, string(status))
		if err != nil {
			if isCheckViolation(err) {
				return ErrInvalidOrderStatus
			}
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if err := expectAffected(result, ErrOrderNotFound); err != nil {
			return err
		}

		order, err = loadOrder(ctx, tx, ` WHERE o.`+column+` = $1`, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus sets the status of an order. Values outside the allowed set
// are rejected by the store with ErrInvalidOrderStatus.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	return r.updateStatus(ctx, "id", id, status)
}

// UpdateStatusByExternalID sets the status of the order for a payment intent
func (r *orderRepository) UpdateStatusByExternalID(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	return r.updateStatus(ctx, "order_id", orderID, status)
}

// Delete removes an order and its lines, returning what was deleted
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		order, err = loadOrder(ctx, tx, ` WHERE o.id = $1`, id)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return expectAffected(result, ErrOrderNotFound)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
