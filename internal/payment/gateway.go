// Package payment talks to the hosted-checkout provider.
package payment

import (
	"context"
	"errors"

	"rsm-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound      = errors.New("payment session not found")
	ErrMissingPaymentIntent = errors.New("payment session has no payment intent")
)

// Gateway creates and inspects hosted payment sessions
type Gateway interface {
	CreateSession(ctx context.Context, items []domain.CartItem) (string, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

// Session is the provider-neutral view of a checkout session
type Session struct {
	ID               string
	PaymentIntentID  string
	PaymentSucceeded bool
	// AmountTotal is in the currency's minor unit
	AmountTotal   int64
	CustomerEmail string
	Lines         []SessionLine
}

// SessionLine is one purchased item as reported by the provider
type SessionLine struct {
	ProductID   string
	ProductName string
	Quantity    int64
}

// Amount converts the session total to major units
func (s *Session) Amount() decimal.Decimal {
	return decimal.New(s.AmountTotal, -2)
}

// MinorUnits converts a major-unit price to the minor unit, rounding half away from zero
func MinorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
