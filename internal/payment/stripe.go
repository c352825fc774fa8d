// Package payment adapts the Stripe embedded checkout API to the
// provider interface the checkout builder expects.
package payment

import (
	"context"
	"fmt"
	"log"

	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/anushka-j18/XURVA/internal/checkout"
)

// Countries the hosted payment UI may collect a shipping address for.
var allowedCountries = []string{"US", "CA", "GB"}

type StripeProvider struct {
	api *client.API
	cb  *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

// NewStripeProvider builds a provider around the given API key. Calls run
// through a circuit breaker so a Stripe outage fails fast instead of
// piling up blocked checkouts; nothing is retried automatically.
func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)

	cb := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name: "stripe-checkout",
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &StripeProvider{api: api, cb: cb}
}

// CreateSession creates one embedded payment-mode checkout session and
// returns its client secret. The hosted widget reports completion
// in-place, so post-completion redirects are disabled.
func (p *StripeProvider) CreateSession(ctx context.Context, items []checkout.LineItem) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:               stripe.Params{Context: ctx},
		Mode:                 stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:               stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		RedirectOnCompletion: stripe.String(string(stripe.CheckoutSessionRedirectOnCompletionNever)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(allowedCountries),
		},
		LineItems: lineItemParams(items),
	}

	session, err := p.cb.Execute(func() (*stripe.CheckoutSession, error) {
		return p.api.CheckoutSessions.New(params)
	})
	if err != nil {
		return "", fmt.Errorf("stripe session create failed: %w", err)
	}

	return session.ClientSecret, nil
}

func lineItemParams(items []checkout.LineItem) []*stripe.CheckoutSessionLineItemParams {
	params := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		params = append(params, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
			},
		})
	}
	return params
}
