package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anushka-j18/XURVA/internal/catalog"
	"golang.org/x/sync/singleflight"
)

// Service orchestrates cart persistence around the pure Cart state object:
// restore on access, full-snapshot save after each mutation, cache refresh
// after each write. Storage failures never surface to the shopper: a failed
// restore degrades to an empty cart and a failed save leaves the in-memory
// cart authoritative for the response.
type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Get returns the cart for the session, restoring it from the repository
// through the cache. A session with no stored cart gets a fresh empty one.
// A restore from the repository fills the cache before Get returns, so no
// cache write for the session is left in flight when the caller goes on to
// mutate the cart.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		c, fromRepo := s.load(ctx, sessionID)
		if fromRepo {
			s.refreshCache(sessionID, c)
		}
		return c, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Cart), nil
}

// load resolves the cart through the cache, falling back to the repository.
// The second result reports whether the cart came from the repository and
// is missing from the cache.
func (s *Service) load(ctx context.Context, sessionID string) (*Cart, bool) {
	cached, err := s.cache.Get(ctx, sessionID)
	if err == nil {
		return cached, false // cart is in cache
	}

	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("cache get error: %v", err) // log cache error but continue
	}

	stored, errGet := s.repo.Get(ctx, sessionID)
	if errGet != nil {
		if !errors.Is(errGet, ErrCartNotFound) {
			// Degrade to an empty cart rather than failing the request
			log.Printf("cart restore error, starting empty: %v", errGet)
		}
		return newCart(sessionID), false
	}

	return stored, true
}

func newCart(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds one unit of the product variant to the session's cart.
func (s *Service) AddItem(ctx context.Context, sessionID string, p catalog.Product, size, color string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.AddItem(p, size, color)
	})
}

// UpdateQuantity sets the quantity on the product's line(s); zero or less
// removes them.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem drops the product's line(s) from the session's cart.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.RemoveItem(productID)
	})
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) {
		c.Clear()
	})
}

func (s *Service) OpenCart(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) { c.OpenCart() })
}

func (s *Service) CloseCart(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) { c.CloseCart() })
}

func (s *Service) ToggleCart(ctx context.Context, sessionID string) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) { c.ToggleCart() })
}

// mutate loads the cart, applies fn, and persists the full snapshot. The
// save happens-after the mutation; a save failure is tolerated so the
// response still reflects the mutation. The cache is settled synchronously
// once the save completes: refreshed with the persisted snapshot on success,
// invalidated on failure. The cache never holds state older than the last
// successful save.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*Cart)) (*Cart, error) {
	c, _ := s.load(ctx, sessionID)

	fn(c)
	c.UpdatedAt = time.Now()

	if errSave := s.repo.Upsert(ctx, c); errSave != nil {
		log.Printf("cart save error (keeping in-memory state): %v", errSave)
		s.invalidateCache(sessionID)
		return c, nil
	}

	s.refreshCache(sessionID, c)
	return c, nil
}

func (s *Service) refreshCache(sessionID string, c *Cart) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, sessionID, c); err != nil {
		log.Printf("cache set error: %v", err)
	}
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
