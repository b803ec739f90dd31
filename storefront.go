// Package storefront is the composition root for the checkout core. It
// reads the environment configuration, selects the storage backend, wires
// the gateway, session, cart, wishlist, and checkout orchestrator together,
// and optionally installs the telemetry providers. Embedding applications
// construct one App at startup and hang Close off their own lifecycle.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gero-store/storefront/internal/api"
	"github.com/gero-store/storefront/internal/cart"
	"github.com/gero-store/storefront/internal/checkout"
	"github.com/gero-store/storefront/internal/config"
	"github.com/gero-store/storefront/internal/session"
	"github.com/gero-store/storefront/internal/storage"
	"github.com/gero-store/storefront/internal/telemetry"
	"github.com/gero-store/storefront/internal/wishlist"
)

// App is the wired storefront core.
type App struct {
	Config   *config.Config
	Store    storage.Store
	API      *api.Client
	Session  *session.Manager
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	Checkout *checkout.Orchestrator

	// Metrics is the Prometheus scrape handler. Nil unless WithTelemetry
	// was given.
	Metrics http.Handler

	logger    *slog.Logger
	shutdowns []func(context.Context) error
}

type options struct {
	logger         *slog.Logger
	notifier       checkout.Notifier
	onUnauthorized func(context.Context)
	telemetry      bool
	serviceVersion string
}

type Option func(*options)

// WithLogger replaces the default JSON logger on stdout.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNotifier routes checkout outcome messages to the embedding UI.
func WithNotifier(n checkout.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithUnauthorizedHook registers the navigation hook run after a 401 has
// cleared the session, typically a redirect to the login screen.
func WithUnauthorizedHook(fn func(context.Context)) Option {
	return func(o *options) { o.onUnauthorized = fn }
}

// WithTelemetry installs the OTLP tracer provider and the Prometheus
// meter provider, and enables the checkout instruments.
func WithTelemetry(serviceVersion string) Option {
	return func(o *options) {
		o.telemetry = true
		o.serviceVersion = serviceVersion
	}
}

// New builds the core from the environment configuration and restores the
// persisted session, cart, and wishlist. Restore failures degrade to empty
// state with a logged warning; only configuration and storage-backend
// errors are fatal.
func New(ctx context.Context, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	app := &App{Config: cfg, logger: logger}

	if o.telemetry {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront", o.serviceVersion)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		app.shutdowns = append(app.shutdowns, shutdownTracer)

		handler, shutdownMeter, err := telemetry.InitMeterProvider("storefront", o.serviceVersion)
		if err != nil {
			return nil, fmt.Errorf("init meter: %w", err)
		}
		app.Metrics = handler
		app.shutdowns = append(app.shutdowns, shutdownMeter)
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app.Store = store
	if closer, ok := store.(interface{ Close() error }); ok {
		app.shutdowns = append(app.shutdowns, func(context.Context) error { return closer.Close() })
	}

	sess := session.NewManager(store, logger)
	if err := sess.Load(ctx); err != nil {
		logger.Warn("could not restore session, starting anonymous", "error", err)
	}
	app.Session = sess

	client := api.NewClient(cfg.API.BaseURL, logger,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(sess),
		api.WithUnauthorizedHandler(func(ctx context.Context) {
			sess.Clear(ctx)
			if o.onUnauthorized != nil {
				o.onUnauthorized(ctx)
			}
		}),
	)
	app.API = client

	app.Cart = cart.New(store, client, logger)
	if err := app.Cart.Load(ctx); err != nil {
		logger.Warn("could not restore cart, starting empty", "error", err)
	}

	app.Wishlist = wishlist.New(store, client, logger)
	if err := app.Wishlist.Load(ctx); err != nil {
		logger.Warn("could not restore wishlist, starting empty", "error", err)
	}

	var metrics *telemetry.CheckoutMetrics
	if o.telemetry {
		metrics, err = telemetry.NewCheckoutMetrics()
		if err != nil {
			return nil, fmt.Errorf("init checkout metrics: %w", err)
		}
	}
	app.Checkout = checkout.New(client, app.Cart, sess, o.notifier, metrics, logger)

	return app, nil
}

// newStore picks the storage backend: Redis when a URL is configured, a
// file-backed store in the data dir otherwise.
func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.RedisURL != "" {
		return storage.NewRedisStore(cfg.Storage.RedisURL, "storefront:")
	}
	return storage.NewFileStore(cfg.Storage.DataDir)
}

// Close releases the telemetry providers and the storage backend.
func (a *App) Close(ctx context.Context) error {
	var first error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
