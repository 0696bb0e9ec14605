package repository

import (
	"context"
	"testing"
	"time"

	"rsm-commerce/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_Aggregates(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	orders := NewOrderRepository(testDB)
	stats := NewStatsRepository(testDB)

	jan := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, orders.Create(ctx, newOrder("pi_a", "fan@example.com", "10.25", jan, line("p1", 2), line("p2", 1))))
	require.NoError(t, orders.Create(ctx, newOrder("pi_b", "fan@example.com", "4.75", jan, line("p1", 3))))
	require.NoError(t, orders.Create(ctx, newOrder("pi_c", "else@example.com", "100", feb, line("p3", 5))))

	paid, err := stats.PaymentsByEmail(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "15.00", domain.FormatAmount(paid))

	none, err := stats.PaymentsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, "0.00", domain.FormatAmount(none))

	distinct, err := stats.DistinctProductsByEmail(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, distinct)

	totals, err := stats.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, totals.Orders)
	assert.True(t, decimal.RequireFromString("115").Equal(totals.Earnings))

	months, err := stats.EarningsByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, domain.YearMonth{Year: 2024, Month: 1}, months[0].YearMonth)
	assert.Equal(t, "15.00", domain.FormatAmount(months[0].Amount))
	assert.Equal(t, domain.YearMonth{Year: 2024, Month: 2}, months[1].YearMonth)

	sales, err := stats.ProductSalesByMonth(ctx)
	require.NoError(t, err)
	perMonth := map[domain.YearMonth]int64{}
	for _, s := range sales {
		perMonth[s.YearMonth] += s.Quantity
	}
	assert.Equal(t, int64(6), perMonth[domain.YearMonth{Year: 2024, Month: 1}])
	assert.Equal(t, int64(5), perMonth[domain.YearMonth{Year: 2024, Month: 2}])
}
