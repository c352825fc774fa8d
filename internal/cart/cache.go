package cart

import (
	"context"
	"errors"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache is a read-through cache in front of the snapshot repository.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Set(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
