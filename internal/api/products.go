package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gero-store/storefront/internal/domain"
)

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListProducts(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	query := url.Values{
		"skip":  []string{strconv.Itoa(skip)},
		"limit": []string{strconv.Itoa(limit)},
	}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListProductsByCategory(ctx context.Context, categoryID string, skip, limit int) ([]domain.Product, error) {
	query := url.Values{
		"category_id": []string{categoryID},
		"skip":        []string{strconv.Itoa(skip)},
		"limit":       []string{strconv.Itoa(limit)},
	}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, q string) ([]domain.Product, error) {
	query := url.Values{"q": []string{q}}

	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/search", query, nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, product, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct submits a full product record.
func (c *Client) UpdateProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error) {
	var updated domain.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, product, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateProductStock submits only the stock field. The backend accepts
// partial updates on PUT; this is the fallback path when the current
// record cannot be fetched first.
func (c *Client) UpdateProductStock(ctx context.Context, id string, stock int) error {
	body := map[string]int{"stock": stock}
	return c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, body, nil, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories, nil); err != nil {
		return nil, err
	}
	return categories, nil
}
