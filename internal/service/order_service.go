package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/payment"
	"rsm-commerce/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = apperr.NotFound("order not found")
	ErrNoOrdersForEmail  = apperr.NotFound("no orders found for this email")
	ErrNoOrders          = apperr.NotFound("no orders found")
	ErrOrderLineNotFound = apperr.NotFound("product line not found in this order")
	ErrSessionNotFound   = apperr.NotFound("payment session not found")
)

// OrderService creates payment sessions, reconciles their outcome into orders
// and manages orders afterwards
type OrderService interface {
	CreatePaymentSession(ctx context.Context, items []domain.CartItem) (string, error)
	ReconcilePayment(ctx context.Context, sessionID string) (*domain.Order, error)
	ListOrdersByEmail(ctx context.Context, actor Actor, email string) ([]domain.OrderWithContact, error)
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Order, error)
	ListAllOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOrderLineProductDetails(ctx context.Context, actor Actor, orderID, lineID uuid.UUID) (*domain.LineProductDetail, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	gateway     payment.Gateway
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	gateway payment.Gateway,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		gateway:     gateway,
	}
}

// CreatePaymentSession requests a hosted checkout for the cart
func (s *orderService) CreatePaymentSession(ctx context.Context, items []domain.CartItem) (string, error) {
	if len(items) == 0 {
		return "", apperr.Validation("cart is empty")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return "", apperr.Validation("quantity must be at least 1")
		}
		if !item.UnitPrice.IsPositive() {
			return "", apperr.Validation("price must be positive")
		}
	}

	sessionID, err := s.gateway.CreateSession(ctx, items)
	if err != nil {
		return "", apperr.Upstream("failed to create payment session", err)
	}
	return sessionID, nil
}

// ReconcilePayment records the outcome of a checkout session. It is keyed on
// the payment intent, so repeated calls converge on a single order whose
// status reflects the latest outcome.
func (s *orderService) ReconcilePayment(ctx context.Context, sessionID string) (*domain.Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperr.Validation("session_id is required")
	}

	session, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, apperr.Upstream("failed to retrieve payment session", err)
	}

	status := domain.OrderStatusForPayment(session.PaymentSucceeded)

	_, err = s.orderRepo.FindByExternalID(ctx, session.PaymentIntentID)
	switch {
	case err == nil:
		return s.setStatusByPaymentIntent(ctx, session.PaymentIntentID, status)
	case !errors.Is(err, repository.ErrOrderNotFound):
		return nil, apperr.Persistence("failed to look up order", err)
	}

	order, err := s.newOrderFromSession(ctx, session, status)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// a concurrent reconciliation inserted it first
		if errors.Is(err, repository.ErrOrderAlreadyExists) {
			return s.setStatusByPaymentIntent(ctx, session.PaymentIntentID, status)
		}
		return nil, apperr.Persistence("failed to save order", err)
	}

	return order, nil
}

func (s *orderService) setStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orderRepo.UpdateStatusByExternalID(ctx, paymentIntentID, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperr.Persistence("failed to update order status", err)
	}
	return order, nil
}

func (s *orderService) newOrderFromSession(ctx context.Context, session *payment.Session, status domain.OrderStatus) (*domain.Order, error) {
	email := NormalizeEmail(session.CustomerEmail)

	var userID *uuid.UUID
	if email != "" {
		user, err := s.userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			userID = &user.ID
		case !errors.Is(err, repository.ErrUserNotFound):
			return nil, apperr.Persistence("failed to look up purchaser", err)
		}
	}

	lines := make([]domain.OrderLine, 0, len(session.Lines))
	for _, line := range session.Lines {
		lines = append(lines, domain.OrderLine{
			ID:          uuid.New(),
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			ProductName: line.ProductName,
		})
	}

	now := time.Now()
	return &domain.Order{
		ID:        uuid.New(),
		OrderID:   session.PaymentIntentID,
		Products:  lines,
		Amount:    session.Amount(),
		Email:     email,
		Status:    status,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ListOrdersByEmail returns a purchaser's orders with their contact details.
// Contact fields are null when no account matches the email. Customers may
// only list their own email.
func (s *orderService) ListOrdersByEmail(ctx context.Context, actor Actor, email string) ([]domain.OrderWithContact, error) {
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

	orders, err := s.orderRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("failed to list orders", err)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrdersForEmail
	}

	var address, phone *string
	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		address, phone = &user.Address, &user.Phone
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, apperr.Persistence("failed to look up purchaser", err)
	}

	enriched := make([]domain.OrderWithContact, 0, len(orders))
	for _, order := range orders {
		enriched = append(enriched, domain.OrderWithContact{Order: order, Address: address, Phone: phone})
	}
	return enriched, nil
}

// GetOrder returns an order to staff or to the customer who placed it
func (s *orderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperr.Persistence("failed to get order", err)
	}

	if order.UserID != nil && *order.UserID == actor.UserID {
		return order, nil
	}
	allowed, err := ownsEmail(ctx, s.userRepo, actor, order.Email)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrNotOwner
	}
	return order, nil
}

// ListAllOrders returns every order, newest first
func (s *orderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to list orders", err)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	return orders, nil
}

// UpdateOrderStatus sets any allowed status; transitions are not ordered
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperr.Validation("status is required")
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, domain.OrderStatus(status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repository.ErrInvalidOrderStatus):
			return nil, apperr.Validation("invalid order status " + status)
		}
		return nil, apperr.Persistence("failed to update order status", err)
	}
	return order, nil
}

// DeleteOrder removes an order and returns it
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperr.Persistence("failed to delete order", err)
	}
	return order, nil
}

// GetOrderLineProductDetails resolves an order line to the live catalog
// product; price and image reflect the catalog today, not the purchase.
func (s *orderService) GetOrderLineProductDetails(ctx context.Context, actor Actor, orderID, lineID uuid.UUID) (*domain.LineProductDetail, error) {
	order, err := s.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	line, ok := order.Line(lineID)
	if !ok {
		return nil, ErrOrderLineNotFound
	}

	productID, err := uuid.Parse(line.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, apperr.Persistence("failed to load product", err)
	}

	return &domain.LineProductDetail{
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: line.Quantity,
	}, nil
}
