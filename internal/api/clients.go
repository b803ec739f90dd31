package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gero-store/storefront/internal/domain"
)

func (c *Client) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	if err := c.do(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil, nil, &client, nil); err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient registers a new customer.
func (c *Client) CreateClient(ctx context.Context, client domain.Client) (*domain.Client, error) {
	var created domain.Client
	if err := c.do(ctx, http.MethodPost, "/clients", nil, client, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, client domain.Client) (*domain.Client, error) {
	var updated domain.Client
	if err := c.do(ctx, http.MethodPut, "/clients/"+url.PathEscape(id), nil, client, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) ListAddresses(ctx context.Context, clientID string) ([]domain.Address, error) {
	query := url.Values{"client_id": []string{clientID}}

	var addresses []domain.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", query, nil, &addresses, nil); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, address domain.Address) (*domain.Address, error) {
	var created domain.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", nil, address, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id string, address domain.Address) (*domain.Address, error) {
	var updated domain.Address
	if err := c.do(ctx, http.MethodPut, "/addresses/"+url.PathEscape(id), nil, address, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/addresses/"+url.PathEscape(id), nil, nil, nil, nil)
}
