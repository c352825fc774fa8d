package checkout

// Shipping and tax policy the checkout view presents alongside the cart
// subtotal. These never reach the payment provider; line items are priced
// individually.
const (
	FreeShippingThreshold = 100.0
	FlatShippingRate      = 9.99
	TaxRate               = 0.08
)

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// QuoteFor computes the order quote for a cart subtotal: free shipping
// above the threshold, flat rate under it, flat-rate tax on the subtotal.
func QuoteFor(subtotal float64) Quote {
	shipping := FlatShippingRate
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRate

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
