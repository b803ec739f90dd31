package storage

import (
	"context"
	"errors"
)

// Well-known keys. Token and user are cleared together on logout.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyToken    = "token"
	KeyUser     = "user"
)

// ErrNotFound is returned by Get when a key has never been set or was
// deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is durable key-value storage for client state. Values are opaque
// bytes; callers own serialization.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
