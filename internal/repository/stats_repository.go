package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rsm-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

// StatsRepository runs the read-only aggregate queries behind the dashboards.
// Every call recomputes from the source tables.
type StatsRepository interface {
	PaymentsByEmail(ctx context.Context, email string) (decimal.Decimal, error)
	DistinctProductsByEmail(ctx context.Context, email string) (int, error)
	Totals(ctx context.Context) (domain.Totals, error)
	EarningsByMonth(ctx context.Context) ([]domain.MonthAmount, error)
	ProductSalesByMonth(ctx context.Context) ([]domain.ProductMonthSales, error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

// PaymentsByEmail sums the order amounts of a purchaser
func (r *statsRepository) PaymentsByEmail(ctx context.Context, email string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM orders WHERE LOWER(email) = $1`, email,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

// DistinctProductsByEmail counts the distinct products a purchaser has bought
func (r *statsRepository) DistinctProductsByEmail(ctx context.Context, email string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT i.product_id)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE LOWER(o.email) = $1
	`
	total, err := countRows(ctx, r.db, query, email)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchased products: %w", err)
	}
	return total, nil
}

// Totals returns the platform-wide counters in one round trip
func (r *statsRepository) Totals(ctx context.Context) (domain.Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM reviews),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(amount), 0) FROM orders)
	`

	var totals domain.Totals
	err := r.db.QueryRowContext(ctx, query).Scan(
		&totals.Orders,
		&totals.Products,
		&totals.Reviews,
		&totals.Users,
		&totals.Earnings,
	)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("failed to compute totals: %w", err)
	}
	return totals, nil
}

// EarningsByMonth sums order amounts per calendar month, oldest first
func (r *statsRepository) EarningsByMonth(ctx context.Context) ([]domain.MonthAmount, error) {
	query := `
		SELECT EXTRACT(YEAR FROM created_at)::int AS year,
		       EXTRACT(MONTH FROM created_at)::int AS month,
		       SUM(amount)
		FROM orders
		GROUP BY year, month
		ORDER BY year, month
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly earnings: %w", err)
	}
	defer rows.Close()

	months := []domain.MonthAmount{}
	for rows.Next() {
		var m domain.MonthAmount
		if err := rows.Scan(&m.Year, &m.Month, &m.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly earnings: %w", err)
		}
		months = append(months, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly earnings: %w", err)
	}

	return months, nil
}

// ProductSalesByMonth sums line quantities per (year, month, product)
func (r *statsRepository) ProductSalesByMonth(ctx context.Context) ([]domain.ProductMonthSales, error) {
	query := `
		SELECT EXTRACT(YEAR FROM o.created_at)::int AS year,
		       EXTRACT(MONTH FROM o.created_at)::int AS month,
		       i.product_id,
		       SUM(i.quantity)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		GROUP BY year, month, i.product_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.ProductMonthSales{}
	for rows.Next() {
		var s domain.ProductMonthSales
		if err := rows.Scan(&s.Year, &s.Month, &s.ProductID, &s.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		sales = append(sales, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales: %w", err)
	}

	return sales, nil
}
