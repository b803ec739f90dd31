package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"

	"github.com/gero-store/storefront/internal/api"
	"github.com/gero-store/storefront/internal/domain"
	"github.com/gero-store/storefront/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unreachableBackend answers 404 to everything, so startup restores fall
// back to local state.
func unreachableBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew_FileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	t.Setenv("STOREFRONT_DATA_DIR", dir)
	t.Setenv("API_BASE_URL", unreachableBackend(t).URL)

	app, err := New(ctx, WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer app.Close(ctx)

	if _, ok := app.Store.(*storage.FileStore); !ok {
		t.Fatalf("expected a file store, got %T", app.Store)
	}
	if app.Checkout == nil || app.Session == nil || app.Wishlist == nil {
		t.Fatal("expected all components wired")
	}
	if app.Metrics != nil {
		t.Error("expected no metrics handler without telemetry")
	}
	if !app.Cart.IsEmpty() {
		t.Error("expected an empty cart on first start")
	}

	app.Cart.Add(ctx, domain.Product{ID: "P1", Name: "Yerba", Price: decimal.NewFromInt(10), Stock: 5})
	if _, err := os.Stat(filepath.Join(dir, "cart.json")); err != nil {
		t.Errorf("expected cart persisted in the data dir: %v", err)
	}
}

func TestNew_RedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	t.Setenv("STOREFRONT_REDIS_URL", "redis://"+mr.Addr())
	t.Setenv("API_BASE_URL", unreachableBackend(t).URL)

	app, err := New(ctx, WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := app.Store.(*storage.RedisStore); !ok {
		t.Fatalf("expected a redis store, got %T", app.Store)
	}

	app.Cart.Add(ctx, domain.Product{ID: "P1", Price: decimal.NewFromInt(10)})
	if !mr.Exists("storefront:cart") {
		t.Error("expected cart persisted under the storefront prefix")
	}

	if err := app.Close(ctx); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestNew_ConfiguredTimeoutReachesGateway(t *testing.T) {
	ctx := context.Background()
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(slow.Close)

	t.Setenv("STOREFRONT_DATA_DIR", t.TempDir())
	t.Setenv("API_BASE_URL", slow.URL)
	t.Setenv("API_TIMEOUT", "20ms")

	app, err := New(ctx, WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer app.Close(ctx)

	err = app.API.Health(ctx)
	if !api.IsNetwork(err) {
		t.Fatalf("expected the configured timeout to cut the call, got %v", err)
	}
}

func TestNew_UnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	ctx := context.Background()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(backend.Close)

	t.Setenv("STOREFRONT_DATA_DIR", t.TempDir())
	t.Setenv("API_BASE_URL", backend.URL)

	redirects := 0
	app, err := New(ctx, WithLogger(testLogger()), WithUnauthorizedHook(func(context.Context) {
		redirects++
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer app.Close(ctx)
	redirects = 0 // startup restores may already have hit the 401

	if err := app.Session.Set(ctx, "tok-1", domain.Client{ID: "C1", Name: "Ana"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.API.Health(ctx); err == nil {
		t.Fatal("expected an error from the 401 backend")
	}
	if app.Session.Token() != "" || app.Session.Client() != nil {
		t.Error("expected the session cleared after a 401")
	}
	if redirects != 1 {
		t.Errorf("expected the redirect hook to fire once, got %d", redirects)
	}
}
