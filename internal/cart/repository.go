package cart

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// Repository persists full cart snapshots keyed by session. Mutations are
// whole-state overwrites (last writer wins); there is no per-item merge at
// the storage layer.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Upsert(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}
