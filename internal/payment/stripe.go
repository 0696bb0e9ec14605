package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rsm-commerce/internal/config"
	"rsm-commerce/internal/domain"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// productIDMetadataKey carries the local catalog id through the provider
const productIDMetadataKey = "product_id"

const unnamedProduct = "Unavailable name"

// checkoutSessions is the subset of the Stripe session client in use
type checkoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	sessions checkoutSessions
	cfg      config.StripeConfig
}

// NewStripeGateway creates a Gateway backed by Stripe Checkout. Stripe's own
// request logging is routed through logger.
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) Gateway {
	backendConfig := &stripe.BackendConfig{
		LeveledLogger: logger.Named("stripe").Sugar(),
	}
	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})
	return &stripeGateway{sessions: api.CheckoutSessions, cfg: cfg}
}

// buildLineItems turns a cart into Stripe line items priced in minor units
func buildLineItems(items []domain.CartItem, currency string) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			productData.Images = stripe.StringSlice([]string{item.Image})
		}
		if item.ProductID != "" {
			productData.Metadata = map[string]string{productIDMetadataKey: item.ProductID}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				ProductData: productData,
				UnitAmount:  stripe.Int64(MinorUnits(item.UnitPrice)),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return lineItems
}

func (g *stripeGateway) CreateSession(ctx context.Context, items []domain.CartItem) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          buildLineItems(items, g.cfg.Currency),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(g.cfg.SuccessURL),
		CancelURL:          stripe.String(g.cfg.CancelURL),
	}
	params.Context = ctx

	session, err := g.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.ID, nil
}

func (g *stripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")
	params.AddExpand("line_items.data.price.product")
	params.AddExpand("payment_intent")

	session, err := g.sessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return toSession(session)
}

// toSession flattens an expanded Stripe session
func toSession(session *stripe.CheckoutSession) (*Session, error) {
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		return nil, ErrMissingPaymentIntent
	}

	result := &Session{
		ID:               session.ID,
		PaymentIntentID:  session.PaymentIntent.ID,
		PaymentSucceeded: session.PaymentIntent.Status == stripe.PaymentIntentStatusSucceeded,
		AmountTotal:      session.AmountTotal,
		Lines:            []SessionLine{},
	}
	if session.CustomerDetails != nil {
		result.CustomerEmail = session.CustomerDetails.Email
	}

	if session.LineItems != nil {
		for _, item := range session.LineItems.Data {
			result.Lines = append(result.Lines, toSessionLine(item))
		}
	}

	return result, nil
}

func toSessionLine(item *stripe.LineItem) SessionLine {
	line := SessionLine{
		ProductName: item.Description,
		Quantity:    item.Quantity,
	}

	if item.Price != nil && item.Price.Product != nil {
		product := item.Price.Product
		line.ProductID = product.ID
		if id := product.Metadata[productIDMetadataKey]; id != "" {
			line.ProductID = id
		}
		if line.ProductName == "" {
			line.ProductName = product.Name
		}
	}

	if line.ProductName == "" {
		line.ProductName = unnamedProduct
	}
	return line
}
