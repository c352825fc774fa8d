package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/anushka-j18/XURVA/internal/catalog"
)

const Currency = "usd"

// LineRequest is the client-declared shape of one cart line. It carries no
// price: pricing is always re-derived server-side from the catalog.
type LineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// LineItem is an authoritatively priced line ready for the payment
// provider. UnitAmount is in minor units (cents) to keep floating point out
// of the wire format.
type LineItem struct {
	Name        string
	Description string
	UnitAmount  int64
	Currency    string
	Quantity    int
}

// Catalog is the authoritative product lookup the builder validates
// against.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// SessionProvider creates one embedded payment session and returns its
// client secret. Implementations own the provider-specific wire format.
type SessionProvider interface {
	CreateSession(ctx context.Context, items []LineItem) (string, error)
}

// EventPublisher receives a best-effort notification after a session is
// created. Failures are logged, never surfaced to the shopper.
type EventPublisher interface {
	PublishSessionCreated(ctx context.Context, ev SessionCreated) error
}

// SessionCreated is the analytics event emitted once the provider accepts
// a session. It deliberately excludes the client secret.
type SessionCreated struct {
	Lines       []SessionCreatedLine `json:"lines"`
	AmountTotal int64                `json:"amount_total"`
	Currency    string               `json:"currency"`
	CreatedAt   time.Time            `json:"created_at"`
}

type SessionCreatedLine struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

// Builder converts untrusted line requests into a priced payment session.
// It is a pure request/response transform with one side effect: the
// provider call.
type Builder struct {
	catalog  Catalog
	provider SessionProvider
	events   EventPublisher // optional
}

func NewBuilder(catalog Catalog, provider SessionProvider, events EventPublisher) *Builder {
	return &Builder{
		catalog:  catalog,
		provider: provider,
		events:   events,
	}
}

// BuildLineItems revalidates every request against the catalog and derives
// the priced line items. All-or-nothing: the first unknown product or
// non-positive quantity fails the whole batch.
func (b *Builder) BuildLineItems(ctx context.Context, reqs []LineRequest) ([]LineItem, error) {
	items := make([]LineItem, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity <= 0 {
			return nil, &ValidationError{ProductID: req.ProductID, Reason: "quantity must be positive"}
		}

		product, err := b.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				return nil, &ValidationError{ProductID: req.ProductID, Reason: "not found in catalog"}
			}
			// A catalog failure is not the shopper's fault; let it propagate
			// as an infrastructure error.
			return nil, fmt.Errorf("catalog lookup for product %q failed: %w", req.ProductID, err)
		}

		items = append(items, LineItem{
			Name:        product.Name,
			Description: lineDescription(product.Description, req.Size, req.Color),
			UnitAmount:  int64(math.Round(product.Price * 100)),
			Currency:    Currency,
			Quantity:    req.Quantity,
		})
	}

	return items, nil
}

// CreateSession validates the requests, asks the provider for an embedded
// payment session, and returns the session's client secret. Provider
// failures propagate; there is no automatic retry.
func (b *Builder) CreateSession(ctx context.Context, reqs []LineRequest) (string, error) {
	items, err := b.BuildLineItems(ctx, reqs)
	if err != nil {
		return "", err
	}

	clientSecret, err := b.provider.CreateSession(ctx, items)
	if err != nil {
		return "", fmt.Errorf("failed to create payment session: %w", err)
	}

	b.publishSessionCreated(items)

	return clientSecret, nil
}

func (b *Builder) publishSessionCreated(items []LineItem) {
	if b.events == nil {
		return
	}

	ev := SessionCreated{
		Currency:  Currency,
		CreatedAt: time.Now(),
	}
	for _, item := range items {
		ev.AmountTotal += item.UnitAmount * int64(item.Quantity)
		ev.Lines = append(ev.Lines, SessionCreatedLine{
			Name:       item.Name,
			UnitAmount: item.UnitAmount,
			Quantity:   item.Quantity,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.events.PublishSessionCreated(ctx, ev); err != nil {
			log.Printf("failed to publish session created event: %v", err)
		}
	}()
}

// lineDescription joins the base description with the chosen variant
// qualifiers, skipping absent ones so there are no dangling separators.
func lineDescription(base, size, color string) string {
	parts := []string{base}
	if size != "" {
		parts = append(parts, "Size: "+size)
	}
	if color != "" {
		parts = append(parts, "Color: "+color)
	}
	return strings.Join(parts, " | ")
}
