package transport

import (
	"errors"
	"net/http"

	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/middleware"
	"rsm-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutProduct is one cart entry sent to checkout
type CheckoutProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name" validate:"required,max=200"`
	Image    string          `json:"image" validate:"max=2048"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity" validate:"required,gte=1"`
}

type CheckoutRequest struct {
	Products []CheckoutProduct `json:"products" validate:"required,min=1,dive"`
}

type CheckoutResponse struct {
	ID string `json:"id"`
}

type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// UpdateOrderStatusRequest leaves status unchecked here; the store enforces the allowed values
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	Order *domain.Order `json:"order"`
}

type DeletedOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type OrdersByEmailResponse struct {
	Orders []domain.OrderWithContact `json:"orders"`
}

// noOrdersForEmailResponse keeps the historical {orders: 0} shape of the empty case
type noOrdersForEmailResponse struct {
	Orders  int    `json:"orders"`
	Message string `json:"message"`
}

type noOrdersResponse struct {
	Message string          `json:"message"`
	Orders  []*domain.Order `json:"orders"`
}

type LineProductResponse struct {
	Product *domain.LineProductDetail `json:"product"`
}

// OrderHandler exposes checkout, payment confirmation and order management
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

// RegisterRoutes registers the order routes. rateLimit guards session creation.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.With(rateLimit).Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Post("/confirm-payment", h.ConfirmPayment)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/{email}", h.ListOrdersByEmail)
			r.Get("/order/{id}", h.GetOrder)
			r.Get("/order/{id}/product-details/{lineId}", h.GetOrderLineProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(h.logger))
				r.Get("/", h.ListAllOrders)
				r.Patch("/update-order-status/{id}", h.UpdateOrderStatus)
				r.Delete("/delete-order/{id}", h.DeleteOrder)
			})
		})
	})
}

// CreateCheckoutSession opens a hosted payment session for the cart
func (h *OrderHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	items := make([]domain.CartItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, domain.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			UnitPrice: p.Price,
			Quantity:  p.Quantity,
		})
	}

	sessionID, err := h.orderService.CreatePaymentSession(r.Context(), items)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to create checkout session")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{ID: sessionID})
}

// ConfirmPayment reconciles a finished checkout session into an order
func (h *OrderHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.ReconcilePayment(r.Context(), req.SessionID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to confirm payment")
		return
	}

	h.logger.Info("Payment reconciled",
		zap.String("order_id", order.OrderID),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Order: order})
}

func (h *OrderHandler) ListOrdersByEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrdersByEmail(r.Context(), actor, chi.URLParam(r, "email"))
	if err != nil {
		if errors.Is(err, service.ErrNoOrdersForEmail) {
			middleware.RespondWithJSON(w, http.StatusNotFound, noOrdersForEmailResponse{
				Orders:  0,
				Message: "no orders found for this email",
			})
			return
		}
		respondServiceError(w, h.logger, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrdersByEmailResponse{Orders: orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListAllOrders returns every order, newest first
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAllOrders(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoOrders) {
			middleware.RespondWithJSON(w, http.StatusNotFound, noOrdersResponse{
				Message: "no orders found",
				Orders:  []*domain.Order{},
			})
			return
		}
		respondServiceError(w, h.logger, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.String("id", id.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Order: order})
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orderService.DeleteOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to delete order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, DeletedOrderResponse{Message: "order deleted", Order: order})
}

// GetOrderLineProduct resolves an order line to the live catalog product
func (h *OrderHandler) GetOrderLineProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	lineID, ok := pathUUID(w, r, "lineId")
	if !ok {
		return
	}

	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrderLineProductDetails(r.Context(), actor, orderID, lineID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to get product details")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LineProductResponse{Product: detail})
}
