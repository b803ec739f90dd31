// Package cart holds the client-visible shopping cart: an ordered list of
// lines keyed by product id, persisted to the local store after every
// mutation, with an optional remote tier that is authoritative when
// reachable and silently skipped when not.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/gero-store/storefront/internal/api"
	"github.com/gero-store/storefront/internal/domain"
	"github.com/gero-store/storefront/internal/storage"
)

// Remote is the backend cart surface, satisfied by *api.Client. A nil
// Remote leaves the cart local-only.
type Remote interface {
	GetCart(ctx context.Context) (*api.RemoteCart, error)
	AddCartItem(ctx context.Context, line domain.CartLine) (*api.RemoteCart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*api.RemoteCart, error)
	RemoveCartItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

type Cart struct {
	store  storage.Store
	remote Remote
	logger *slog.Logger

	mu    sync.Mutex
	lines []domain.CartLine
}

func New(store storage.Store, remote Remote, logger *slog.Logger) *Cart {
	return &Cart{store: store, remote: remote, logger: logger}
}

// Load restores the cart at startup. A reachable remote wins over the
// local copy; otherwise the persisted local copy is used. A corrupt local
// copy is dropped, not propagated.
func (c *Cart) Load(ctx context.Context) error {
	if c.remote != nil {
		remote, err := c.remote.GetCart(ctx)
		if err == nil {
			c.mu.Lock()
			c.lines = remote.Items
			c.mu.Unlock()
			c.persist(ctx)
			return nil
		}
		c.logger.Warn("remote cart unavailable, using local copy", "error", err)
	}

	raw, err := c.store.Get(ctx, storage.KeyCart)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		c.logger.Warn("discarding unreadable stored cart", "error", err)
		_ = c.store.Delete(ctx, storage.KeyCart)
		return nil
	}

	c.mu.Lock()
	c.lines = lines
	c.mu.Unlock()
	return nil
}

// Add puts one unit of the product in the cart. An existing line gets its
// quantity bumped; over-stock adds are the caller's concern, not rejected
// here.
func (c *Cart) Add(ctx context.Context, product domain.Product) {
	c.mu.Lock()
	found := false
	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		c.lines = append(c.lines, domain.LineFromProduct(product))
	}
	line := c.lineFor(product.ID)
	c.mu.Unlock()

	c.persist(ctx)

	if c.remote != nil {
		if _, err := c.remote.AddCartItem(ctx, line); err != nil {
			c.logger.Warn("remote cart add failed, keeping local state", "product_id", product.ID, "error", err)
		}
	}
}

// Remove drops the line for productID; no-op when absent.
func (c *Cart) Remove(ctx context.Context, productID string) {
	c.mu.Lock()
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	removed := len(kept) != len(c.lines)
	c.lines = kept
	c.mu.Unlock()

	if !removed {
		return
	}

	c.persist(ctx)

	if c.remote != nil {
		if err := c.remote.RemoveCartItem(ctx, productID); err != nil {
			c.logger.Warn("remote cart remove failed, keeping local state", "product_id", productID, "error", err)
		}
	}
}

// SetQuantity replaces the line's quantity. Zero or negative removes the
// line; the cart never holds a line with quantity below 1.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(ctx, productID)
		return
	}

	c.mu.Lock()
	found := false
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return
	}

	c.persist(ctx)

	if c.remote != nil {
		if _, err := c.remote.UpdateCartItem(ctx, productID, quantity); err != nil {
			c.logger.Warn("remote cart update failed, keeping local state", "product_id", productID, "error", err)
		}
	}
}

// Clear empties the cart and removes the persisted copy.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()

	if err := c.store.Delete(ctx, storage.KeyCart); err != nil {
		c.logger.Error("failed to delete stored cart", "error", err)
	}

	if c.remote != nil {
		if err := c.remote.ClearCart(ctx); err != nil {
			c.logger.Warn("remote cart clear failed, keeping local state", "error", err)
		}
	}
}

// Lines returns a snapshot of the cart in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, the badge number on the cart icon.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// lineFor must be called with the mutex held.
func (c *Cart) lineFor(productID string) domain.CartLine {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return line
		}
	}
	return domain.CartLine{}
}

func (c *Cart) persist(ctx context.Context) {
	c.mu.Lock()
	raw, err := json.Marshal(c.lines)
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("failed to encode cart", "error", err)
		return
	}

	if err := c.store.Set(ctx, storage.KeyCart, raw); err != nil {
		c.logger.Error("failed to persist cart", "error", err)
	}
}
