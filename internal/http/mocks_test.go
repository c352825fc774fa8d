package http

import (
	"context"

	"github.com/anushka-j18/XURVA/internal/cart"
	"github.com/anushka-j18/XURVA/internal/catalog"
	"github.com/anushka-j18/XURVA/internal/checkout"
)

type mockCatalog struct {
	products map[string]*catalog.Product
	listErr  error
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (m *mockCatalog) ListProducts(_ context.Context, f catalog.Filter) ([]*catalog.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*catalog.Product
	for _, p := range m.products {
		if f.Category == "" || p.Category == f.Category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) Related(_ context.Context, id string, limit int) ([]*catalog.Product, error) {
	self, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	var out []*catalog.Product
	for _, p := range m.products {
		if p.ID != id && p.Category == self.Category && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockCartService keeps carts in memory with the real state-object
// semantics, no persistence.
type mockCartService struct {
	carts map[string]*cart.Cart
	err   error
}

func newMockCartService() *mockCartService {
	return &mockCartService{carts: map[string]*cart.Cart{}}
}

func (m *mockCartService) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[sessionID]
	if !ok {
		c = &cart.Cart{SessionID: sessionID}
		m.carts[sessionID] = c
	}
	return c, nil
}

func (m *mockCartService) mutate(ctx context.Context, sessionID string, fn func(*cart.Cart)) (*cart.Cart, error) {
	c, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(c)
	return c, nil
}

func (m *mockCartService) AddItem(ctx context.Context, sessionID string, p catalog.Product, size, color string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.AddItem(p, size, color) })
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.UpdateQuantity(productID, quantity) })
}

func (m *mockCartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.RemoveItem(productID) })
}

func (m *mockCartService) Clear(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.Clear() })
}

func (m *mockCartService) OpenCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.OpenCart() })
}

func (m *mockCartService) CloseCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.CloseCart() })
}

func (m *mockCartService) ToggleCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return m.mutate(ctx, sessionID, func(c *cart.Cart) { c.ToggleCart() })
}

type mockBuilder struct {
	calls  int
	reqs   []checkout.LineRequest
	secret string
	err    error
}

func (m *mockBuilder) CreateSession(_ context.Context, reqs []checkout.LineRequest) (string, error) {
	m.calls++
	m.reqs = reqs
	if m.err != nil {
		return "", m.err
	}
	return m.secret, nil
}

func fixtureProducts() map[string]*catalog.Product {
	return map[string]*catalog.Product{
		"prod-001": {
			ID:          "prod-001",
			Name:        "Cashmere Crewneck",
			Price:       49.99,
			Category:    "knitwear",
			Description: "Midweight two-ply cashmere sweater",
			Sizes:       []string{"S", "M", "L"},
			InStock:     true,
		},
		"prod-002": {
			ID:          "prod-002",
			Name:        "Ribbed Knit Cardigan",
			Price:       149.99,
			Category:    "knitwear",
			Description: "Boxy cardigan in a chunky wool-alpaca blend",
			InStock:     true,
		},
		"prod-005": {
			ID:          "prod-005",
			Name:        "Merino Beanie",
			Price:       39.99,
			Category:    "accessories",
			Description: "Ribbed beanie in extra-fine merino",
			InStock:     true,
		},
	}
}
