package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gero-store/storefront/internal/domain"
)

// RemoteWishlist mirrors the backend's wishlist envelope.
type RemoteWishlist struct {
	Items []domain.WishlistEntry `json:"items"`
}

func (c *Client) GetWishlist(ctx context.Context) (*RemoteWishlist, error) {
	var wl RemoteWishlist
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, nil, &wl, nil); err != nil {
		return nil, err
	}
	return &wl, nil
}

func (c *Client) AddWishlistItem(ctx context.Context, entry domain.WishlistEntry) (*RemoteWishlist, error) {
	var wl RemoteWishlist
	if err := c.do(ctx, http.MethodPost, "/wishlist", nil, entry, &wl, nil); err != nil {
		return nil, err
	}
	return &wl, nil
}

func (c *Client) RemoveWishlistItem(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/wishlist/"+url.PathEscape(productID), nil, nil, nil, nil)
}

func (c *Client) ClearWishlist(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/wishlist", nil, nil, nil, nil)
}

// CheckWishlist asks the backend whether a product is saved.
func (c *Client) CheckWishlist(ctx context.Context, productID string) (bool, error) {
	var out struct {
		InWishlist bool `json:"in_wishlist"`
	}
	if err := c.do(ctx, http.MethodGet, "/wishlist/check/"+url.PathEscape(productID), nil, nil, &out, nil); err != nil {
		return false, err
	}
	return out.InWishlist, nil
}
