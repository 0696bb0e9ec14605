package transport

import (
	"context"
	"net/http"
	"testing"
	"time"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubOrderService overrides the methods a test needs; the rest panic
type stubOrderService struct {
	service.OrderService
	createSession func(items []domain.CartItem) (string, error)
	reconcile     func(sessionID string) (*domain.Order, error)
	byEmail       func(actor service.Actor, email string) ([]domain.OrderWithContact, error)
	listAll       func() ([]*domain.Order, error)
	updateStatus  func(id uuid.UUID, status string) (*domain.Order, error)
	lineDetails   func(actor service.Actor, orderID, lineID uuid.UUID) (*domain.LineProductDetail, error)
}

func (s *stubOrderService) CreatePaymentSession(ctx context.Context, items []domain.CartItem) (string, error) {
	return s.createSession(items)
}

func (s *stubOrderService) ReconcilePayment(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.reconcile(sessionID)
}

func (s *stubOrderService) ListOrdersByEmail(ctx context.Context, actor service.Actor, email string) ([]domain.OrderWithContact, error) {
	return s.byEmail(actor, email)
}

func (s *stubOrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.listAll()
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	return s.updateStatus(id, status)
}

func (s *stubOrderService) GetOrderLineProductDetails(ctx context.Context, actor service.Actor, orderID, lineID uuid.UUID) (*domain.LineProductDetail, error) {
	return s.lineDetails(actor, orderID, lineID)
}

func newOrderRouter(svc service.OrderService) chi.Router {
	r := chi.NewRouter()
	NewOrderHandler(svc, zap.NewNop()).RegisterRoutes(r, middleware.AuthMiddleware(testSecret, zap.NewNop()), passThrough)
	return r
}

func TestOrderHandler_CreateCheckoutSession(t *testing.T) {
	var received []domain.CartItem
	router := newOrderRouter(&stubOrderService{
		createSession: func(items []domain.CartItem) (string, error) {
			received = items
			return "cs_test_123", nil
		},
	})

	w := do(t, router, http.MethodPost, "/api/orders/create-checkout-session", "", map[string]interface{}{
		"products": []map[string]interface{}{
			{"id": "p-1", "name": "Longboard", "image": "lb.png", "price": 129.9, "quantity": 2},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp CheckoutResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, "cs_test_123", resp.ID)
	require.Len(t, received, 1)
	assert.Equal(t, "p-1", received[0].ProductID)
	assert.True(t, decimal.RequireFromString("129.9").Equal(received[0].UnitPrice))
	assert.Equal(t, int64(2), received[0].Quantity)
}

func TestOrderHandler_CheckoutRejectsBadCartsAndUpstreamFailures(t *testing.T) {
	router := newOrderRouter(&stubOrderService{
		createSession: func(items []domain.CartItem) (string, error) {
			return "", apperr.Upstream("failed to create payment session", assert.AnError)
		},
	})

	w := do(t, router, http.MethodPost, "/api/orders/create-checkout-session", "", CheckoutRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/orders/create-checkout-session", "", CheckoutRequest{
		Products: []CheckoutProduct{{Name: "Deck", Price: decimal.NewFromInt(40), Quantity: 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/orders/create-checkout-session", "", CheckoutRequest{
		Products: []CheckoutProduct{{Name: "Deck", Price: decimal.NewFromInt(40), Quantity: 1}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to create payment session")
}

func TestOrderHandler_ConfirmPayment(t *testing.T) {
	order := &domain.Order{
		ID:        uuid.New(),
		OrderID:   "pi_123",
		Amount:    decimal.RequireFromString("259.80"),
		Email:     "jo@example.com",
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	router := newOrderRouter(&stubOrderService{
		reconcile: func(sessionID string) (*domain.Order, error) {
			if sessionID != "cs_test_123" {
				return nil, service.ErrSessionNotFound
			}
			return order, nil
		},
	})

	w := do(t, router, http.MethodPost, "/api/orders/confirm-payment", "", ConfirmPaymentRequest{SessionID: "cs_test_123"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]map[string]interface{}
	decodeJSON(t, w, &body)
	assert.Equal(t, "pi_123", body["order"]["orderId"])
	assert.Equal(t, "259.8", body["order"]["amount"])
	assert.Equal(t, "pending", body["order"]["status"])

	w = do(t, router, http.MethodPost, "/api/orders/confirm-payment", "", ConfirmPaymentRequest{SessionID: "cs_unknown"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/orders/confirm-payment", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_EmptyResultShapes(t *testing.T) {
	router := newOrderRouter(&stubOrderService{
		byEmail: func(actor service.Actor, email string) ([]domain.OrderWithContact, error) { return nil, service.ErrNoOrdersForEmail },
		listAll: func() ([]*domain.Order, error) { return nil, service.ErrNoOrders },
	})
	user := bearer(t, uuid.New(), domain.RoleUser)
	admin := bearer(t, uuid.New(), domain.RoleAdmin)

	w := do(t, router, http.MethodGet, "/api/orders/jo@example.com", user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"orders":0,"message":"no orders found for this email"}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/orders/", user, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodGet, "/api/orders/", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"no orders found","orders":[]}`, w.Body.String())
}

func TestOrderHandler_OrdersByEmailIncludeContact(t *testing.T) {
	address := "12 rue des Lilas"
	router := newOrderRouter(&stubOrderService{
		byEmail: func(actor service.Actor, email string) ([]domain.OrderWithContact, error) {
			assert.Equal(t, "Jo@Example.com", email)
			return []domain.OrderWithContact{{
				Order:   &domain.Order{ID: uuid.New(), OrderID: "pi_1", Status: domain.OrderStatusShipped},
				Address: &address,
			}}, nil
		},
	})

	w := do(t, router, http.MethodGet, "/api/orders/Jo@Example.com", bearer(t, uuid.New(), domain.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Orders []map[string]interface{} `json:"orders"`
	}
	decodeJSON(t, w, &body)
	require.Len(t, body.Orders, 1)
	assert.Equal(t, "pi_1", body.Orders[0]["orderId"])
	assert.Equal(t, address, body.Orders[0]["address"])
	assert.Nil(t, body.Orders[0]["phone"])
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	id := uuid.New()
	router := newOrderRouter(&stubOrderService{
		updateStatus: func(got uuid.UUID, status string) (*domain.Order, error) {
			if status == "" {
				return nil, apperr.Validation("status is required")
			}
			return &domain.Order{ID: got, Status: domain.OrderStatus(status)}, nil
		},
	})
	admin := bearer(t, uuid.New(), domain.RoleAdmin)

	w := do(t, router, http.MethodPatch, "/api/orders/update-order-status/"+id.String(), admin, UpdateOrderStatusRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status is required")

	w = do(t, router, http.MethodPatch, "/api/orders/update-order-status/"+id.String(), admin, UpdateOrderStatusRequest{Status: "shipped"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp OrderResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, domain.OrderStatusShipped, resp.Order.Status)
}

func TestOrderHandler_LineProductDetails(t *testing.T) {
	orderID, lineID := uuid.New(), uuid.New()
	router := newOrderRouter(&stubOrderService{
		lineDetails: func(actor service.Actor, gotOrder, gotLine uuid.UUID) (*domain.LineProductDetail, error) {
			if gotLine != lineID {
				return nil, service.ErrOrderLineNotFound
			}
			return &domain.LineProductDetail{Name: "Longboard", Price: 139.9, Image: "lb.png", Quantity: 2}, nil
		},
	})
	user := bearer(t, uuid.New(), domain.RoleUser)

	w := do(t, router, http.MethodGet, "/api/orders/order/"+orderID.String()+"/product-details/"+lineID.String(), user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"product":{"name":"Longboard","price":139.9,"image":"lb.png","quantity":2}}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/orders/order/"+orderID.String()+"/product-details/"+uuid.NewString(), user, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_CustomerDataIsOwnerOnly(t *testing.T) {
	callerID := uuid.New()
	var seen service.Actor
	router := newOrderRouter(&stubOrderService{
		byEmail: func(actor service.Actor, email string) ([]domain.OrderWithContact, error) {
			seen = actor
			return nil, service.ErrNotOwner
		},
		lineDetails: func(actor service.Actor, orderID, lineID uuid.UUID) (*domain.LineProductDetail, error) {
			return nil, service.ErrNotOwner
		},
	})
	token := bearer(t, callerID, domain.RoleUser)

	w := do(t, router, http.MethodGet, "/api/orders/someone-else@example.com", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, service.Actor{UserID: callerID, Role: domain.RoleUser}, seen)

	w = do(t, router, http.MethodGet, "/api/orders/order/"+uuid.NewString()+"/product-details/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
