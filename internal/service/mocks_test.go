package service

import (
	"context"
	"sort"
	"strings"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/payment"
	"rsm-commerce/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock repositories for testing

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, err := m.FindByID(ctx, user.ID); err != nil {
		return err
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Role = role
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	delete(m.users, user.Email)
	return nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	for _, existing := range m.reviews {
		if existing.UserID == review.UserID && existing.ProductID == review.ProductID {
			existing.Comment = review.Comment
			existing.Rating = review.Rating
			return existing, nil
		}
	}
	stored := *review
	m.reviews[stored.ID] = &stored
	return &stored, nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, exists := m.reviews[id]
	if !exists {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) filter(keep func(*domain.Review) bool) []*domain.Review {
	reviews := []*domain.Review{}
	for _, review := range m.reviews {
		if keep(review) {
			reviews = append(reviews, review)
		}
	}
	return reviews
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return m.filter(func(r *domain.Review) bool { return r.ProductID == productID }), nil
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	return m.filter(func(r *domain.Review) bool { return r.UserID == userID }), nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.reviews[id]; !exists {
		return repository.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) Count(ctx context.Context) (int, error) {
	return len(m.reviews), nil
}

func (m *mockReviewRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	reviews, _ := m.ListByUser(ctx, userID)
	return len(reviews), nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	reviews  *mockReviewRepository
}

func newMockProductRepository(reviews *mockReviewRepository) *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product), reviews: reviews}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	for reviewID, review := range m.reviews.reviews {
		if review.ProductID == id {
			delete(m.reviews.reviews, reviewID)
		}
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	found := *product
	return &found, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]*domain.Product, int, error) {
	matched := []*domain.Product{}
	for _, product := range m.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.Gamme != "" && product.Gamme != filter.Gamme {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (m *mockProductRepository) Related(ctx context.Context, product *domain.Product) ([]*domain.Product, error) {
	related := []*domain.Product{}
	for _, candidate := range m.products {
		if candidate.ID != product.ID && candidate.Category == product.Category {
			related = append(related, candidate)
		}
	}
	return related, nil
}

func (m *mockProductRepository) RecomputeRating(ctx context.Context, id uuid.UUID) (float64, error) {
	product, exists := m.products[id]
	if !exists {
		return 0, repository.ErrProductNotFound
	}
	reviews, _ := m.reviews.ListByProduct(ctx, id)
	product.Rating = domain.AverageRating(reviews)
	return product.Rating, nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
	// createHook runs before Create stores the order
	createHook func(order *domain.Order)
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Products = append([]domain.OrderLine(nil), order.Products...)
	return &clone
}

var allowedStatuses = map[domain.OrderStatus]bool{
	domain.OrderStatusPending:    true,
	domain.OrderStatusProcessing: true,
	domain.OrderStatusShipped:    true,
	domain.OrderStatusCompleted:  true,
	domain.OrderStatusFailed:     true,
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.createHook != nil {
		m.createHook(order)
	}
	for _, existing := range m.orders {
		if existing.OrderID == order.OrderID {
			return repository.ErrOrderAlreadyExists
		}
	}
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (m *mockOrderRepository) FindByExternalID(ctx context.Context, orderID string) (*domain.Order, error) {
	for _, order := range m.orders {
		if order.OrderID == orderID {
			return cloneOrder(order), nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) newestFirst(keep func(*domain.Order) bool) []*domain.Order {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if keep(order) {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders
}

func (m *mockOrderRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	return m.newestFirst(func(o *domain.Order) bool { return strings.ToLower(o.Email) == email }), nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return m.newestFirst(func(*domain.Order) bool { return true }), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	if !allowedStatuses[status] {
		return nil, repository.ErrInvalidOrderStatus
	}
	order.Status = status
	return cloneOrder(order), nil
}

func (m *mockOrderRepository) UpdateStatusByExternalID(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	for _, order := range m.orders {
		if order.OrderID == orderID {
			return m.UpdateStatus(ctx, order.ID, status)
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return order, nil
}

// mockStatsRepository aggregates straight from the other mocks
type mockStatsRepository struct {
	orders   *mockOrderRepository
	products *mockProductRepository
	reviews  *mockReviewRepository
	users    *mockUserRepository
}

func yearMonthOf(order *domain.Order) domain.YearMonth {
	return domain.YearMonth{Year: order.CreatedAt.Year(), Month: int(order.CreatedAt.Month())}
}

func (m *mockStatsRepository) PaymentsByEmail(ctx context.Context, email string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range m.orders.orders {
		if order.Email == email {
			total = total.Add(order.Amount)
		}
	}
	return total, nil
}

func (m *mockStatsRepository) DistinctProductsByEmail(ctx context.Context, email string) (int, error) {
	seen := map[string]bool{}
	for _, order := range m.orders.orders {
		if order.Email == email {
			for _, line := range order.Products {
				seen[line.ProductID] = true
			}
		}
	}
	return len(seen), nil
}

func (m *mockStatsRepository) Totals(ctx context.Context) (domain.Totals, error) {
	earnings := decimal.Zero
	for _, order := range m.orders.orders {
		earnings = earnings.Add(order.Amount)
	}
	return domain.Totals{
		Orders:   len(m.orders.orders),
		Products: len(m.products.products),
		Reviews:  len(m.reviews.reviews),
		Users:    len(m.users.users),
		Earnings: earnings,
	}, nil
}

// EarningsByMonth deliberately returns buckets in map order
func (m *mockStatsRepository) EarningsByMonth(ctx context.Context) ([]domain.MonthAmount, error) {
	buckets := map[domain.YearMonth]decimal.Decimal{}
	for _, order := range m.orders.orders {
		ym := yearMonthOf(order)
		buckets[ym] = buckets[ym].Add(order.Amount)
	}
	months := []domain.MonthAmount{}
	for ym, amount := range buckets {
		months = append(months, domain.MonthAmount{YearMonth: ym, Amount: amount})
	}
	return months, nil
}

func (m *mockStatsRepository) ProductSalesByMonth(ctx context.Context) ([]domain.ProductMonthSales, error) {
	type key struct {
		ym        domain.YearMonth
		productID string
	}
	buckets := map[key]int64{}
	for _, order := range m.orders.orders {
		for _, line := range order.Products {
			buckets[key{yearMonthOf(order), line.ProductID}] += line.Quantity
		}
	}
	sales := []domain.ProductMonthSales{}
	for k, quantity := range buckets {
		sales = append(sales, domain.ProductMonthSales{YearMonth: k.ym, ProductID: k.productID, Quantity: quantity})
	}
	return sales, nil
}

type mockGateway struct {
	sessions  map[string]*payment.Session
	lastItems []domain.CartItem
	err       error
}

func newMockGateway() *mockGateway {
	return &mockGateway{sessions: make(map[string]*payment.Session)}
}

func (m *mockGateway) CreateSession(ctx context.Context, items []domain.CartItem) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastItems = items
	return "cs_" + uuid.NewString(), nil
}

func (m *mockGateway) RetrieveSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, payment.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

type mockOccasionRepository struct {
	occasions map[uuid.UUID]*domain.Occasion
}

func newMockOccasionRepository() *mockOccasionRepository {
	return &mockOccasionRepository{occasions: make(map[uuid.UUID]*domain.Occasion)}
}

var validConditions = map[domain.Condition]bool{
	domain.ConditionNew: true, domain.ConditionVeryGood: true, domain.ConditionGood: true, domain.ConditionFair: true,
}

func (m *mockOccasionRepository) Create(ctx context.Context, occasion *domain.Occasion) error {
	if !validConditions[occasion.Condition] {
		return repository.ErrConstraintViolation
	}
	stored := *occasion
	m.occasions[occasion.ID] = &stored
	return nil
}

func (m *mockOccasionRepository) Update(ctx context.Context, occasion *domain.Occasion) error {
	if _, exists := m.occasions[occasion.ID]; !exists {
		return repository.ErrOccasionNotFound
	}
	if !validConditions[occasion.Condition] {
		return repository.ErrConstraintViolation
	}
	stored := *occasion
	m.occasions[occasion.ID] = &stored
	return nil
}

func (m *mockOccasionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.occasions[id]; !exists {
		return repository.ErrOccasionNotFound
	}
	delete(m.occasions, id)
	return nil
}

func (m *mockOccasionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Occasion, error) {
	occasion, exists := m.occasions[id]
	if !exists {
		return nil, repository.ErrOccasionNotFound
	}
	found := *occasion
	return &found, nil
}

func (m *mockOccasionRepository) List(ctx context.Context, filter domain.OccasionFilter, page domain.Page) ([]*domain.Occasion, int, error) {
	matched := []*domain.Occasion{}
	for _, occasion := range m.occasions {
		if filter.Category == "" || occasion.Category == filter.Category {
			matched = append(matched, occasion)
		}
	}
	return matched, len(matched), nil
}

type mockBlogRepository struct {
	posts map[uuid.UUID]*domain.BlogPost
}

func newMockBlogRepository() *mockBlogRepository {
	return &mockBlogRepository{posts: make(map[uuid.UUID]*domain.BlogPost)}
}

func (m *mockBlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockBlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	existing, exists := m.posts[post.ID]
	if !exists {
		return repository.ErrBlogPostNotFound
	}
	likes := existing.Likes
	stored := *post
	stored.Likes = likes
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockBlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.posts[id]; !exists {
		return repository.ErrBlogPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockBlogRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	post, exists := m.posts[id]
	if !exists {
		return nil, repository.ErrBlogPostNotFound
	}
	found := *post
	return &found, nil
}

func (m *mockBlogRepository) List(ctx context.Context, page domain.Page) ([]*domain.BlogPost, int, error) {
	posts := []*domain.BlogPost{}
	for _, post := range m.posts {
		posts = append(posts, post)
	}
	return posts, len(posts), nil
}

func (m *mockBlogRepository) AddLikes(ctx context.Context, id uuid.UUID, delta int) (*domain.BlogPost, error) {
	post, exists := m.posts[id]
	if !exists {
		return nil, repository.ErrBlogPostNotFound
	}
	post.Likes += delta
	if post.Likes < 0 {
		post.Likes = 0
	}
	found := *post
	return &found, nil
}
