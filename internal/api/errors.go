package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a response the backend answered with a non-2xx status.
// Message carries the server's message when it sent one, otherwise a
// fallback for the status class.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// NetworkError is a request that never got a response: DNS, refused
// connection, timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "no response from server, check your connection: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a connectivity failure rather than a
// server rejection.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// backend rejection.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "session expired"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusUnprocessableEntity:
		return "validation failed"
	case http.StatusTooManyRequests:
		return "too many requests, slow down"
	case http.StatusInternalServerError:
		return "server error"
	default:
		return http.StatusText(status)
	}
}
