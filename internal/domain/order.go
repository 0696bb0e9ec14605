package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// DefaultOrderStatus is both the schema default and the status of a
// successfully reconciled payment.
const DefaultOrderStatus = OrderStatusPending

// OrderStatusForPayment maps a payment outcome to the reconciled status
func OrderStatusForPayment(succeeded bool) OrderStatus {
	if succeeded {
		return OrderStatusPending
	}
	return OrderStatusFailed
}

// OrderLine is a snapshot of one purchased product
type OrderLine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProductID   string    `json:"productId" db:"product_id"`
	Quantity    int64     `json:"quantity" db:"quantity"`
	ProductName string    `json:"productName" db:"product_name"`
}

// Order is a reconciled purchase. OrderID is the payment intent identifier.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   string          `json:"orderId" db:"order_id"`
	Products  []OrderLine     `json:"products"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Email     string          `json:"email" db:"email"`
	Status    OrderStatus     `json:"status" db:"status"`
	UserID    *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// Line returns the line with the given id
func (o *Order) Line(lineID uuid.UUID) (OrderLine, bool) {
	for _, line := range o.Products {
		if line.ID == lineID {
			return line, true
		}
	}
	return OrderLine{}, false
}

// OrderWithContact is an order enriched with the purchaser's contact details
type OrderWithContact struct {
	*Order
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// CartItem is one entry of a checkout request
type CartItem struct {
	ProductID string
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int64
}

// LineProductDetail is the live catalog view of a purchased line
type LineProductDetail struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int64   `json:"quantity"`
}
