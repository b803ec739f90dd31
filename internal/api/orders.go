package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gero-store/storefront/internal/domain"
)

func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	var created domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, order, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context, skip, limit int) ([]domain.Order, error) {
	query := url.Values{
		"skip":  []string{strconv.Itoa(skip)},
		"limit": []string{strconv.Itoa(limit)},
	}

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", query, nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByClient backs the customer's order-history view.
func (c *Client) ListOrdersByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	query := url.Values{"client_id": []string{clientID}}

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", query, nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, order domain.Order) (*domain.Order, error) {
	var updated domain.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), nil, order, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), nil, nil, nil, nil)
}

func (c *Client) CreateOrderDetail(ctx context.Context, detail domain.OrderDetail) (*domain.OrderDetail, error) {
	var created domain.OrderDetail
	if err := c.do(ctx, http.MethodPost, "/order_details", nil, detail, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}
