package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gero-store/storefront/internal/domain"
)

// RemoteCart is the backend's copy of the cart. The local container treats
// it as authoritative when reachable.
type RemoteCart struct {
	Items []domain.CartLine `json:"items"`
}

func (c *Client) GetCart(ctx context.Context) (*RemoteCart, error) {
	var cart RemoteCart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &cart, nil); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, line domain.CartLine) (*RemoteCart, error) {
	var cart RemoteCart
	if err := c.do(ctx, http.MethodPost, "/cart/items", nil, line, &cart, nil); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*RemoteCart, error) {
	body := map[string]int{"quantity": quantity}

	var cart RemoteCart
	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productID), nil, body, &cart, nil); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil, nil, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil, nil, nil)
}

// MergeCart folds a guest cart into the logged-in client's server-side
// cart, used right after login.
func (c *Client) MergeCart(ctx context.Context, guestLines []domain.CartLine) (*RemoteCart, error) {
	body := map[string][]domain.CartLine{"guest_cart": guestLines}

	var cart RemoteCart
	if err := c.do(ctx, http.MethodPost, "/cart/merge", nil, body, &cart, nil); err != nil {
		return nil, err
	}
	return &cart, nil
}
