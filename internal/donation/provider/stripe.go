// Package provider holds payment provider clients.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"qrgen/internal/donation/models"
)

// Stripe creates checkout sessions through the Stripe API.
type Stripe struct {
	api *client.API
}

// NewStripe returns a provider using the default Stripe backends.
func NewStripe(secretKey string) *Stripe {
	return NewStripeWithBackends(secretKey, nil)
}

// NewStripeWithBackends allows pointing the client at another API host.
func NewStripeWithBackends(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(secretKey, backends)}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, p models.CheckoutParams) (*models.CheckoutSession, error) {
	params := toSessionParams(p)
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("stripe checkout session (%s, request %s): %w", stripeErr.Type, stripeErr.RequestID, err)
		}
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	if session.URL == "" {
		return nil, errors.New("stripe checkout session has no url")
	}
	return &models.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func toSessionParams(p models.CheckoutParams) *stripe.CheckoutSessionParams {
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice(p.PaymentMethodTypes),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(p.ProductName),
					Description: stripe.String(p.ProductDescription),
				},
				UnitAmount: stripe.Int64(p.UnitAmount),
			},
			Quantity: stripe.Int64(p.Quantity),
		}},
		Mode:       stripe.String(p.Mode),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
}
