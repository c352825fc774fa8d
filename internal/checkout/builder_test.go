package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anushka-j18/XURVA/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	products map[string]*catalog.Product
	err      error
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

type mockProvider struct {
	calls  int
	items  []LineItem
	secret string
	err    error
}

func (m *mockProvider) CreateSession(_ context.Context, items []LineItem) (string, error) {
	m.calls++
	m.items = items
	if m.err != nil {
		return "", m.err
	}
	return m.secret, nil
}

type mockPublisher struct {
	m      sync.Mutex
	events []SessionCreated
	done   chan struct{}
}

func (m *mockPublisher) PublishSessionCreated(_ context.Context, ev SessionCreated) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.events = append(m.events, ev)
	close(m.done)
	return nil
}

func fixtureCatalog() *mockCatalog {
	original := 59.99
	return &mockCatalog{products: map[string]*catalog.Product{
		"prod-001": {
			ID:          "prod-001",
			Name:        "Cashmere Crewneck",
			Price:       49.99,
			Description: "Midweight two-ply cashmere sweater",
			Sizes:       []string{"S", "M", "L"},
			Colors:      []string{"Ivory", "Navy"},
			InStock:     true,
		},
		"prod-002": {
			ID:            "prod-002",
			Name:          "Merino Beanie",
			Price:         19.99,
			OriginalPrice: &original,
			Description:   "Ribbed beanie in extra-fine merino",
			InStock:       true,
		},
	}}
}

func TestBuildLineItems_DerivesMinorUnits(t *testing.T) {
	b := NewBuilder(fixtureCatalog(), &mockProvider{}, nil)

	items, err := b.BuildLineItems(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, int64(4999), items[0].UnitAmount)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "usd", items[0].Currency)
	assert.Equal(t, "Cashmere Crewneck", items[0].Name)
}

func TestBuildLineItems_DescriptionAssembly(t *testing.T) {
	b := NewBuilder(fixtureCatalog(), &mockProvider{}, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  LineRequest
		want string
	}{
		{
			name: "size and color",
			req:  LineRequest{ProductID: "prod-001", Quantity: 1, Size: "M", Color: "Navy"},
			want: "Midweight two-ply cashmere sweater | Size: M | Color: Navy",
		},
		{
			name: "size only has no trailing separator",
			req:  LineRequest{ProductID: "prod-001", Quantity: 1, Size: "M"},
			want: "Midweight two-ply cashmere sweater | Size: M",
		},
		{
			name: "color only",
			req:  LineRequest{ProductID: "prod-001", Quantity: 1, Color: "Ivory"},
			want: "Midweight two-ply cashmere sweater | Color: Ivory",
		},
		{
			name: "neither leaves base description unchanged",
			req:  LineRequest{ProductID: "prod-002", Quantity: 1},
			want: "Ribbed beanie in extra-fine merino",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := b.BuildLineItems(ctx, []LineRequest{tt.req})
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Description)
		})
	}
}

func TestBuildLineItems_PreservesRequestOrder(t *testing.T) {
	b := NewBuilder(fixtureCatalog(), &mockProvider{}, nil)

	items, err := b.BuildLineItems(context.Background(), []LineRequest{
		{ProductID: "prod-002", Quantity: 1},
		{ProductID: "prod-001", Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Merino Beanie", items[0].Name)
	assert.Equal(t, "Cashmere Crewneck", items[1].Name)
}

func TestCreateSession_UnknownProductNeverReachesProvider(t *testing.T) {
	provider := &mockProvider{secret: "cs_test_123"}
	b := NewBuilder(fixtureCatalog(), provider, nil)

	_, err := b.CreateSession(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 1},
		{ProductID: "prod-404", Quantity: 1},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "prod-404", verr.ProductID)
	assert.Equal(t, 0, provider.calls)
}

func TestBuildLineItems_CatalogFailureIsNotAValidationError(t *testing.T) {
	cat := fixtureCatalog()
	cat.err = errors.New("sqlite: database is locked")
	b := NewBuilder(cat, &mockProvider{}, nil)

	_, err := b.BuildLineItems(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 1},
	})
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.ErrorContains(t, err, "database is locked")
}

func TestCreateSession_NonPositiveQuantityRejected(t *testing.T) {
	provider := &mockProvider{secret: "cs_test_123"}
	b := NewBuilder(fixtureCatalog(), provider, nil)

	for _, qty := range []int{0, -1} {
		_, err := b.CreateSession(context.Background(), []LineRequest{
			{ProductID: "prod-001", Quantity: qty},
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "prod-001", verr.ProductID)
	}
	assert.Equal(t, 0, provider.calls)
}

func TestCreateSession_ReturnsClientSecret(t *testing.T) {
	provider := &mockProvider{secret: "cs_test_123"}
	b := NewBuilder(fixtureCatalog(), provider, nil)

	secret, err := b.CreateSession(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 2, Size: "M"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", secret)
	assert.Equal(t, 1, provider.calls)
	require.Len(t, provider.items, 1)
	assert.Equal(t, int64(4999), provider.items[0].UnitAmount)
}

func TestCreateSession_ProviderErrorPropagates(t *testing.T) {
	provider := &mockProvider{err: errors.New("stripe unavailable")}
	b := NewBuilder(fixtureCatalog(), provider, nil)

	_, err := b.CreateSession(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 1},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "stripe unavailable")
	assert.Equal(t, 1, provider.calls)
}

func TestCreateSession_PublishesEvent(t *testing.T) {
	provider := &mockProvider{secret: "cs_test_123"}
	pub := &mockPublisher{done: make(chan struct{})}
	b := NewBuilder(fixtureCatalog(), provider, pub)

	_, err := b.CreateSession(context.Background(), []LineRequest{
		{ProductID: "prod-001", Quantity: 2},
		{ProductID: "prod-002", Quantity: 1},
	})
	require.NoError(t, err)

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("session created event was not published")
	}

	pub.m.Lock()
	defer pub.m.Unlock()
	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, int64(2*4999+1999), ev.AmountTotal)
	assert.Equal(t, "usd", ev.Currency)
	require.Len(t, ev.Lines, 2)
}

func TestQuoteFor(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     float64
		wantShipping float64
	}{
		{"under threshold pays flat rate", 49.99, 9.99},
		{"at threshold still pays", 100.0, 9.99},
		{"over threshold ships free", 149.99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuoteFor(tt.subtotal)
			assert.Equal(t, tt.subtotal, q.Subtotal)
			assert.Equal(t, tt.wantShipping, q.Shipping)
			assert.Equal(t, tt.subtotal*0.08, q.Tax)
			assert.Equal(t, tt.subtotal+tt.wantShipping+tt.subtotal*0.08, q.Total)
		})
	}
}
