package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gero-store/storefront/internal/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Auth(t *testing.T) {
	t.Run("attaches bearer token when present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("expected Bearer tok-1, got %q", got)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(),
			WithHTTPClient(server.Client()),
			WithTokenSource(staticToken("tok-1")),
		)

		if err := client.Health(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("sends no Authorization header when anonymous", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("expected no Authorization header, got %q", got)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(),
			WithHTTPClient(server.Client()),
			WithTokenSource(staticToken("")),
		)

		if err := client.Health(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Run("server message is surfaced verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"stock must be positive"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		err := client.Health(context.Background())
		var ae *APIError
		if !errors.As(err, &ae) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if ae.Status != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", ae.Status)
		}
		if ae.Message != "stock must be positive" {
			t.Errorf("unexpected message: %s", ae.Message)
		}
	})

	t.Run("detail field is also honored", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"missing client_id"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		err := client.Health(context.Background())
		var ae *APIError
		if !errors.As(err, &ae) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if ae.Message != "missing client_id" {
			t.Errorf("unexpected message: %s", ae.Message)
		}
	})

	t.Run("empty body falls back to a status-class message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		err := client.Health(context.Background())
		var ae *APIError
		if !errors.As(err, &ae) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if ae.Message != "resource not found" {
			t.Errorf("unexpected message: %s", ae.Message)
		}
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", testLogger(), WithHTTPClient(&http.Client{}))

		err := client.Health(context.Background())
		if !IsNetwork(err) {
			t.Fatalf("expected network error, got %v", err)
		}
		if !strings.Contains(err.Error(), "check your connection") {
			t.Errorf("unexpected message: %v", err)
		}
	})
}

func TestClient_UnauthorizedPolicy(t *testing.T) {
	t.Run("401 fires the handler once per call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		fired := 0
		client := NewClient(server.URL, testLogger(),
			WithHTTPClient(server.Client()),
			WithUnauthorizedHandler(func(context.Context) { fired++ }),
		)

		err := client.Health(context.Background())
		if StatusOf(err) != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %v", err)
		}
		if fired != 1 {
			t.Errorf("expected handler fired once, got %d", fired)
		}
	})

	t.Run("other statuses do not fire the handler", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		fired := 0
		client := NewClient(server.URL, testLogger(),
			WithHTTPClient(server.Client()),
			WithUnauthorizedHandler(func(context.Context) { fired++ }),
		)

		_ = client.Health(context.Background())
		if fired != 0 {
			t.Errorf("expected handler not fired, got %d", fired)
		}
	})
}

func TestClient_Resources(t *testing.T) {
	t.Run("CreateBill sends idempotency key and decodes the id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/bills" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Idempotency-Key"); got != "key-1" {
				t.Errorf("expected Idempotency-Key key-1, got %q", got)
			}

			var bill domain.Bill
			if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if bill.BillNumber == "" {
				t.Error("expected a bill number")
			}

			bill.ID = "B1"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(bill)
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		created, err := client.CreateBill(context.Background(), domain.Bill{
			BillNumber: "BILL-20250901-001",
			Total:      decimal.NewFromInt(20),
		}, "key-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "B1" {
			t.Errorf("expected id B1, got %s", created.ID)
		}
	})

	t.Run("ListProducts sends pagination params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("skip") != "10" || r.URL.Query().Get("limit") != "5" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"P1","name":"Mate"}]`))
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		products, err := client.ListProducts(context.Background(), 10, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 1 || products[0].ID != "P1" {
			t.Errorf("unexpected products: %+v", products)
		}
	})

	t.Run("UpdateProductStock sends a partial body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/products/P1" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"stock":3}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		if err := client.UpdateProductStock(context.Background(), "P1", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("MergeCart wraps the guest lines", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/cart/merge" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			var payload struct {
				GuestCart []domain.CartLine `json:"guest_cart"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if len(payload.GuestCart) != 1 || payload.GuestCart[0].ProductID != "P1" {
				t.Errorf("unexpected payload: %+v", payload)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[{"product_id":"P1","quantity":2}]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, testLogger(), WithHTTPClient(server.Client()))

		cart, err := client.MergeCart(context.Background(), []domain.CartLine{{ProductID: "P1", Quantity: 2}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
			t.Errorf("unexpected cart: %+v", cart)
		}
	})
}


func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger(), WithTimeout(20*time.Millisecond))

	err := client.Health(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected a network error from the timeout, got %v", err)
	}
}
