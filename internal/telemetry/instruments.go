package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CheckoutMetrics are the purchase-flow instruments. A nil receiver is
// valid everywhere so callers can run without a meter provider.
type CheckoutMetrics struct {
	attempts      metric.Int64Counter
	completed     metric.Int64Counter
	failed        metric.Int64Counter
	stockWarnings metric.Int64Counter
	duration      metric.Float64Histogram
}

func NewCheckoutMetrics() (*CheckoutMetrics, error) {
	meter := otel.Meter("storefront/checkout")

	attempts, err := meter.Int64Counter("checkout.attempts",
		metric.WithDescription("Checkout submissions that passed preconditions and validation"))
	if err != nil {
		return nil, err
	}
	completed, err := meter.Int64Counter("checkout.completed",
		metric.WithDescription("Checkouts that committed a bill and order"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("checkout.failed",
		metric.WithDescription("Checkouts aborted by a backend or network error"))
	if err != nil {
		return nil, err
	}
	stockWarnings, err := meter.Int64Counter("checkout.stock_warnings",
		metric.WithDescription("Successful checkouts with at least one failed stock decrement"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("checkout.duration",
		metric.WithDescription("Wall time of the checkout write sequence"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &CheckoutMetrics{
		attempts:      attempts,
		completed:     completed,
		failed:        failed,
		stockWarnings: stockWarnings,
		duration:      duration,
	}, nil
}

func (m *CheckoutMetrics) Attempt(ctx context.Context) {
	if m != nil {
		m.attempts.Add(ctx, 1)
	}
}

func (m *CheckoutMetrics) Completed(ctx context.Context, elapsed time.Duration) {
	if m != nil {
		m.completed.Add(ctx, 1)
		m.duration.Record(ctx, elapsed.Seconds())
	}
}

func (m *CheckoutMetrics) Failed(ctx context.Context) {
	if m != nil {
		m.failed.Add(ctx, 1)
	}
}

func (m *CheckoutMetrics) StockWarning(ctx context.Context) {
	if m != nil {
		m.stockWarnings.Add(ctx, 1)
	}
}
