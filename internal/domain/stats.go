package domain

import "github.com/shopspring/decimal"

// YearMonth identifies a calendar month bucket
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Before orders buckets chronologically
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// UserStats summarises a customer's activity
type UserStats struct {
	TotalPayments          string `json:"totalPayments"`
	TotalReviews           int    `json:"totalReviews"`
	TotalPurchasedProducts int    `json:"totalPurchasedProducts"`
}

// MonthlyEarnings is the order amount total of one month
type MonthlyEarnings struct {
	Month    int    `json:"month"`
	Year     int    `json:"year"`
	Earnings string `json:"earnings"`
}

// AdminStats summarises the whole platform
type AdminStats struct {
	TotalOrders     int               `json:"totalOrders"`
	TotalProducts   int               `json:"totalProducts"`
	TotalReviews    int               `json:"totalReviews"`
	TotalUsers      int               `json:"totalUsers"`
	TotalEarnings   string            `json:"totalEarnings"`
	MonthlyEarnings []MonthlyEarnings `json:"monthlyEarnings"`
}

// MonthlySales is the number of units sold in one month
type MonthlySales struct {
	Month      int   `json:"month"`
	Year       int   `json:"year"`
	TotalSales int64 `json:"totalSales"`
}

// MonthAmount is a raw per-month money total as read from the store
type MonthAmount struct {
	YearMonth
	Amount decimal.Decimal
}

// ProductMonthSales is the quantity of one product sold in one month
type ProductMonthSales struct {
	YearMonth
	ProductID string
	Quantity  int64
}

// Totals are the platform-wide counters
type Totals struct {
	Orders   int
	Products int
	Reviews  int
	Users    int
	Earnings decimal.Decimal
}

// FormatAmount renders a money value with exactly two decimals
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
