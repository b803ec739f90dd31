package checkout

import (
	"errors"
	"fmt"
)

// Precondition failures, rejected before any network call.
var (
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrNotAuthenticated = errors.New("checkout: no authenticated client")
)

// ValidationError is a checkout form field that failed local validation.
// No network call is made when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockWarning aggregates stock-decrement failures from an otherwise
// successful checkout. It is reported alongside success, never instead
// of it: the bill and order are already committed.
type StockWarning struct {
	Failed []string // product ids whose stock update did not land
	Errs   []error
}

func (w *StockWarning) Error() string {
	return fmt.Sprintf("stock synchronization failed for %d product(s)", len(w.Failed))
}

func (w *StockWarning) Unwrap() []error { return w.Errs }
