package service

import (
	"context"
	"errors"
	"sort"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/repository"
)

// StatsService computes dashboard aggregates on every call
type StatsService interface {
	UserStats(ctx context.Context, actor Actor, email string) (*domain.UserStats, error)
	AdminStats(ctx context.Context) (*domain.AdminStats, error)
	MonthlyProductSales(ctx context.Context) ([]domain.MonthlySales, error)
}

type statsService struct {
	statsRepo  repository.StatsRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
}

// NewStatsService creates a new instance of StatsService
func NewStatsService(
	statsRepo repository.StatsRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
) StatsService {
	return &statsService{statsRepo: statsRepo, userRepo: userRepo, reviewRepo: reviewRepo}
}

// UserStats summarises the purchases and reviews of the user with email.
// Customers may only read their own summary.
func (s *statsService) UserStats(ctx context.Context, actor Actor, email string) (*domain.UserStats, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	allowed, err := ownsEmail(ctx, s.userRepo, actor, email)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotOwner
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Persistence("failed to look up user", err)
	}

	paid, err := s.statsRepo.PaymentsByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to sum payments", err)
	}

	reviews, err := s.reviewRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Persistence("failed to count reviews", err)
	}

	products, err := s.statsRepo.DistinctProductsByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to count purchased products", err)
	}

	return &domain.UserStats{
		TotalPayments:          domain.FormatAmount(paid),
		TotalReviews:           reviews,
		TotalPurchasedProducts: products,
	}, nil
}

// AdminStats summarises the whole platform
func (s *statsService) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	totals, err := s.statsRepo.Totals(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to compute totals", err)
	}

	months, err := s.statsRepo.EarningsByMonth(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to compute monthly earnings", err)
	}

	return &domain.AdminStats{
		TotalOrders:     totals.Orders,
		TotalProducts:   totals.Products,
		TotalReviews:    totals.Reviews,
		TotalUsers:      totals.Users,
		TotalEarnings:   domain.FormatAmount(totals.Earnings),
		MonthlyEarnings: formatMonthlyEarnings(months),
	}, nil
}

// MonthlyProductSales returns units sold per month, oldest first
func (s *statsService) MonthlyProductSales(ctx context.Context) ([]domain.MonthlySales, error) {
	sales, err := s.statsRepo.ProductSalesByMonth(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to compute product sales", err)
	}
	return collapseMonthlySales(sales), nil
}

func formatMonthlyEarnings(months []domain.MonthAmount) []domain.MonthlyEarnings {
	sorted := append([]domain.MonthAmount(nil), months...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j].YearMonth) })

	earnings := make([]domain.MonthlyEarnings, 0, len(sorted))
	for _, m := range sorted {
		earnings = append(earnings, domain.MonthlyEarnings{
			Month:    m.Month,
			Year:     m.Year,
			Earnings: domain.FormatAmount(m.Amount),
		})
	}
	return earnings
}

// collapseMonthlySales folds per-product month buckets into month totals
func collapseMonthlySales(sales []domain.ProductMonthSales) []domain.MonthlySales {
	totals := map[domain.YearMonth]int64{}
	for _, s := range sales {
		totals[s.YearMonth] += s.Quantity
	}

	months := make([]domain.YearMonth, 0, len(totals))
	for ym := range totals {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	result := make([]domain.MonthlySales, 0, len(months))
	for _, ym := range months {
		result = append(result, domain.MonthlySales{Month: ym.Month, Year: ym.Year, TotalSales: totals[ym]})
	}
	return result
}
