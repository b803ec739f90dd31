// Package wishlist keeps the set of saved products. Same two-tier
// persistence as the cart, without quantities: adding a present product is
// a no-op, remote failures degrade to local-only state.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/gero-store/storefront/internal/api"
	"github.com/gero-store/storefront/internal/domain"
	"github.com/gero-store/storefront/internal/storage"
)

// Remote is the backend wishlist surface, satisfied by *api.Client.
type Remote interface {
	GetWishlist(ctx context.Context) (*api.RemoteWishlist, error)
	AddWishlistItem(ctx context.Context, entry domain.WishlistEntry) (*api.RemoteWishlist, error)
	RemoveWishlistItem(ctx context.Context, productID string) error
	ClearWishlist(ctx context.Context) error
}

type Wishlist struct {
	store  storage.Store
	remote Remote
	logger *slog.Logger

	mu      sync.Mutex
	entries []domain.WishlistEntry
}

func New(store storage.Store, remote Remote, logger *slog.Logger) *Wishlist {
	return &Wishlist{store: store, remote: remote, logger: logger}
}

// Load restores the wishlist, preferring a reachable remote.
func (w *Wishlist) Load(ctx context.Context) error {
	if w.remote != nil {
		remote, err := w.remote.GetWishlist(ctx)
		if err == nil {
			w.mu.Lock()
			w.entries = remote.Items
			w.mu.Unlock()
			w.persist(ctx)
			return nil
		}
		w.logger.Warn("remote wishlist unavailable, using local copy", "error", err)
	}

	raw, err := w.store.Get(ctx, storage.KeyWishlist)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	var entries []domain.WishlistEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		w.logger.Warn("discarding unreadable stored wishlist", "error", err)
		_ = w.store.Delete(ctx, storage.KeyWishlist)
		return nil
	}

	w.mu.Lock()
	w.entries = entries
	w.mu.Unlock()
	return nil
}

// Add saves a product. Adding one that is already saved does nothing.
func (w *Wishlist) Add(ctx context.Context, product domain.Product) {
	w.mu.Lock()
	for _, entry := range w.entries {
		if entry.ProductID == product.ID {
			w.mu.Unlock()
			return
		}
	}
	entry := domain.EntryFromProduct(product)
	w.entries = append(w.entries, entry)
	w.mu.Unlock()

	w.persist(ctx)

	if w.remote != nil {
		remote, err := w.remote.AddWishlistItem(ctx, entry)
		if err != nil {
			w.logger.Warn("remote wishlist add failed, keeping local state", "product_id", product.ID, "error", err)
			return
		}
		// The backend's copy wins when it answers.
		w.mu.Lock()
		w.entries = remote.Items
		w.mu.Unlock()
		w.persist(ctx)
	}
}

// Remove drops the entry for productID; no-op when absent.
func (w *Wishlist) Remove(ctx context.Context, productID string) {
	w.mu.Lock()
	kept := w.entries[:0]
	for _, entry := range w.entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	w.entries = kept
	w.mu.Unlock()

	w.persist(ctx)

	if w.remote != nil {
		if err := w.remote.RemoveWishlistItem(ctx, productID); err != nil {
			w.logger.Warn("remote wishlist remove failed, keeping local state", "product_id", productID, "error", err)
		}
	}
}

// Clear empties the set.
func (w *Wishlist) Clear(ctx context.Context) {
	w.mu.Lock()
	w.entries = nil
	w.mu.Unlock()

	if err := w.store.Delete(ctx, storage.KeyWishlist); err != nil {
		w.logger.Error("failed to delete stored wishlist", "error", err)
	}

	if w.remote != nil {
		if err := w.remote.ClearWishlist(ctx); err != nil {
			w.logger.Warn("remote wishlist clear failed, keeping local state", "error", err)
		}
	}
}

func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Entries returns a snapshot in insertion order.
func (w *Wishlist) Entries() []domain.WishlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.WishlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func (w *Wishlist) persist(ctx context.Context) {
	w.mu.Lock()
	raw, err := json.Marshal(w.entries)
	w.mu.Unlock()
	if err != nil {
		w.logger.Error("failed to encode wishlist", "error", err)
		return
	}

	if err := w.store.Set(ctx, storage.KeyWishlist, raw); err != nil {
		w.logger.Error("failed to persist wishlist", "error", err)
	}
}
