package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gero-store/storefront/internal/domain"
)

// CreateBill submits a new bill. idempotencyKey, when non-empty, is sent
// as an Idempotency-Key header so a retried submission can be deduplicated
// server-side.
func (c *Client) CreateBill(ctx context.Context, bill domain.Bill, idempotencyKey string) (*domain.Bill, error) {
	var extra http.Header
	if idempotencyKey != "" {
		extra = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	var created domain.Bill
	if err := c.do(ctx, http.MethodPost, "/bills", nil, bill, &created, extra); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	var bill domain.Bill
	if err := c.do(ctx, http.MethodGet, "/bills/"+url.PathEscape(id), nil, nil, &bill, nil); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) ListBills(ctx context.Context, skip, limit int) ([]domain.Bill, error) {
	query := url.Values{
		"skip":  []string{strconv.Itoa(skip)},
		"limit": []string{strconv.Itoa(limit)},
	}

	var bills []domain.Bill
	if err := c.do(ctx, http.MethodGet, "/bills", query, nil, &bills, nil); err != nil {
		return nil, err
	}
	return bills, nil
}

func (c *Client) UpdateBill(ctx context.Context, id string, bill domain.Bill) (*domain.Bill, error) {
	var updated domain.Bill
	if err := c.do(ctx, http.MethodPut, "/bills/"+url.PathEscape(id), nil, bill, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteBill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bills/"+url.PathEscape(id), nil, nil, nil, nil)
}
