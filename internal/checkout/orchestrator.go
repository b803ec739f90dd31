// Package checkout turns a populated cart and a validated form into a
// persisted bill, order, and order details, then decrements product stock.
// The sequence is a one-shot saga: bill and order creation abort the whole
// submission on failure, stock decrements are tolerated failures reported
// as a warning after the purchase has already committed.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gero-store/storefront/internal/api"
	"github.com/gero-store/storefront/internal/cart"
	"github.com/gero-store/storefront/internal/domain"
	"github.com/gero-store/storefront/internal/telemetry"
)

var tracer = otel.Tracer("storefront/checkout")

// Gateway is the slice of the backend client the saga writes through,
// satisfied by *api.Client.
type Gateway interface {
	CreateBill(ctx context.Context, bill domain.Bill, idempotencyKey string) (*domain.Bill, error)
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	CreateOrderDetail(ctx context.Context, detail domain.OrderDetail) (*domain.OrderDetail, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, product domain.Product) (*domain.Product, error)
	UpdateProductStock(ctx context.Context, id string, stock int) error
}

// Identity resolves the logged-in client, satisfied by *session.Manager.
type Identity interface {
	Client() *domain.Client
}

// Notifier receives the user-facing outcome messages.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
}

type Orchestrator struct {
	gateway  Gateway
	cart     *cart.Cart
	identity Identity
	notifier Notifier
	metrics  *telemetry.CheckoutMetrics
	logger   *slog.Logger

	// refresh is the product-list refresh collaborator, invoked after a
	// successful checkout so displayed stock reflects the decrements.
	refresh func(context.Context)
}

func New(gateway Gateway, c *cart.Cart, identity Identity, notifier Notifier, metrics *telemetry.CheckoutMetrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:  gateway,
		cart:     c,
		identity: identity,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnSuccess registers the product-list refresh collaborator.
func (o *Orchestrator) OnSuccess(fn func(context.Context)) {
	o.refresh = fn
}

// Result is a committed purchase. StockWarning is non-nil when one or
// more stock decrements failed after the bill and order were created.
type Result struct {
	Bill         *domain.Bill
	Order        *domain.Order
	StockWarning *StockWarning
}

// Submit runs the checkout sequence once. Any error before or during the
// bill, order, or order-detail writes leaves the cart untouched so the
// user can retry; success clears the cart exactly once. Submit performs
// no automatic retries.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*Result, error) {
	if o.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	client := o.identity.Client()
	if client == nil || client.ID == "" {
		return nil, ErrNotAuthenticated
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	snapshot := o.cart.Lines()
	total := decimal.Zero
	for _, line := range snapshot {
		total = total.Add(line.Subtotal())
	}

	ctx, span := tracer.Start(ctx, "checkout.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("client.id", client.ID),
		attribute.Int("cart.lines", len(snapshot)),
		attribute.String("cart.total", total.String()),
	)

	o.metrics.Attempt(ctx)
	started := time.Now()

	bill, err := o.createBill(ctx, client.ID, total, form.PaymentMethod)
	if err != nil {
		return nil, o.abort(ctx, span, fmt.Errorf("create bill: %w", err))
	}

	order, err := o.createOrder(ctx, client.ID, total, form.DeliveryMethod, bill.ID)
	if err != nil {
		return nil, o.abort(ctx, span, fmt.Errorf("create order: %w", err))
	}

	if err := o.createOrderDetails(ctx, order.ID, snapshot); err != nil {
		// The bill and order already exist server-side; there is no
		// compensating delete in the backend contract, so the gap is
		// logged and the submission fails.
		o.logger.Error("order committed without details", "order_id", order.ID, "bill_id", bill.ID, "error", err)
		return nil, o.abort(ctx, span, fmt.Errorf("create order details: %w", err))
	}

	warning := o.decrementStock(ctx, snapshot)

	o.cart.Clear(ctx)
	o.metrics.Completed(ctx, time.Since(started))
	o.logger.Info("checkout complete",
		"order_id", order.ID,
		"bill_id", bill.ID,
		"bill_number", bill.BillNumber,
		"total", total.String(),
		"lines", len(snapshot),
	)

	if o.notifier != nil {
		o.notifier.Success("Purchase completed")
		if warning != nil {
			o.notifier.Warning("Purchase saved, but stock levels could not be updated")
		}
	}
	if warning != nil {
		o.metrics.StockWarning(ctx)
		span.AddEvent("stock synchronization incomplete")
	}
	if o.refresh != nil {
		o.refresh(ctx)
	}

	return &Result{Bill: bill, Order: order, StockWarning: warning}, nil
}

// abort is the shared failure path for steps 1-3: the cart is left
// untouched, the user sees one consolidated error with the backend's
// message when it sent one.
func (o *Orchestrator) abort(ctx context.Context, span oteltrace.Span, err error) error {
	o.metrics.Failed(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	o.logger.Error("checkout aborted", "error", err)
	if o.notifier != nil {
		o.notifier.Error(userMessage(err))
	}
	return err
}

func userMessage(err error) string {
	if api.IsNetwork(err) {
		return "Could not reach the server, check your connection and try again"
	}
	var ae *api.APIError
	if errors.As(err, &ae) {
		return "Purchase failed: " + ae.Message
	}
	return "Purchase failed, please try again"
}

func (o *Orchestrator) createBill(ctx context.Context, clientID string, total decimal.Decimal, payment domain.PaymentType) (*domain.Bill, error) {
	ctx, span := tracer.Start(ctx, "checkout.create_bill")
	defer span.End()

	bill := domain.Bill{
		BillNumber:  generateBillNumber(),
		Date:        time.Now().UTC(),
		Discount:    decimal.Zero,
		Total:       total,
		PaymentType: payment,
		ClientID:    clientID,
	}

	created, err := o.gateway.CreateBill(ctx, bill, uuid.NewString())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o.logger.Info("bill created", "bill_id", created.ID, "bill_number", created.BillNumber)
	return created, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, clientID string, total decimal.Decimal, delivery domain.DeliveryMethod, billID string) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "checkout.create_order")
	defer span.End()

	order := domain.Order{
		ClientID:       clientID,
		Total:          total,
		Status:         domain.OrderStatusPending,
		DeliveryMethod: delivery,
		Date:           time.Now().UTC(),
		BillID:         billID,
	}

	created, err := o.gateway.CreateOrder(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o.logger.Info("order created", "order_id", created.ID, "bill_id", billID)
	return created, nil
}

// createOrderDetails writes one detail per cart line, concurrently. All
// must succeed; completion order is irrelevant.
func (o *Orchestrator) createOrderDetails(ctx context.Context, orderID string, lines []domain.CartLine) error {
	ctx, span := tracer.Start(ctx, "checkout.create_order_details")
	defer span.End()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, line := range lines {
		wg.Add(1)
		go func(line domain.CartLine) {
			defer wg.Done()

			detail := domain.OrderDetail{
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
			}
			if _, err := o.gateway.CreateOrderDetail(ctx, detail); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("product %s: %w", line.ProductID, err))
				mu.Unlock()
			}
		}(line)
	}
	wg.Wait()

	if len(errs) > 0 {
		err := errs[0]
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// decrementStock lowers each purchased product's stock, concurrently,
// after the order details exist. Failures do not fail the purchase; they
// are collected into a single warning.
func (o *Orchestrator) decrementStock(ctx context.Context, lines []domain.CartLine) *StockWarning {
	ctx, span := tracer.Start(ctx, "checkout.decrement_stock")
	defer span.End()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		warning StockWarning
	)
	for _, line := range lines {
		wg.Add(1)
		go func(line domain.CartLine) {
			defer wg.Done()

			if err := o.decrementOne(ctx, line); err != nil {
				o.logger.Error("stock decrement failed", "product_id", line.ProductID, "quantity", line.Quantity, "error", err)
				mu.Lock()
				warning.Failed = append(warning.Failed, line.ProductID)
				warning.Errs = append(warning.Errs, fmt.Errorf("product %s: %w", line.ProductID, err))
				mu.Unlock()
			}
		}(line)
	}
	wg.Wait()

	if len(warning.Failed) == 0 {
		return nil
	}
	span.AddEvent("partial stock synchronization")
	return &warning
}

// decrementOne fetches the current record so unrelated fields survive the
// update, floors the new stock at zero, and submits a full update. When
// the fetch fails it falls back to a partial stock-only update computed
// from the cached cart line.
func (o *Orchestrator) decrementOne(ctx context.Context, line domain.CartLine) error {
	product, err := o.gateway.GetProduct(ctx, line.ProductID)
	if err != nil {
		o.logger.Warn("could not fetch product before stock update, sending partial update", "product_id", line.ProductID, "error", err)
		return o.gateway.UpdateProductStock(ctx, line.ProductID, floorStock(line.Stock, line.Quantity))
	}

	updated := *product
	updated.Stock = floorStock(product.Stock, line.Quantity)
	if _, err := o.gateway.UpdateProduct(ctx, line.ProductID, updated); err != nil {
		return err
	}
	return nil
}

func floorStock(current, sold int) int {
	if current <= sold {
		return 0
	}
	return current - sold
}

// generateBillNumber builds the client-side bill token, e.g.
// BILL-20250901-042.
func generateBillNumber() string {
	return fmt.Sprintf("BILL-%s-%03d", time.Now().Format("20060102"), rand.IntN(1000))
}
