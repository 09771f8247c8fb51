package masterpieces

import (
	"errors"
	"fmt"
	"strings"
)

// Validation failures are raised before any request is sent.
var (
	ErrMissingUser     = errors.New("user id is required")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyQuery      = errors.New("query is empty")
	ErrEmptyBooking    = errors.New("booking has no items")
)

// TransportError covers non-2xx statuses, timeouts, network failures and
// undecodable bodies.
type TransportError struct {
	Method string
	Path   string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is an envelope that came back with success=false.
type APIError struct {
	Path    string
	Message string
	Code    int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api %s reported failure", e.Path)
	}
	return fmt.Sprintf("api %s: %s", e.Path, e.Message)
}

// IsValidation reports whether err is one of the local validation failures.
func IsValidation(err error) bool {
	for _, target := range []error{ErrMissingUser, ErrInvalidID, ErrInvalidQuantity, ErrEmptyQuery, ErrEmptyBooking} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// UserMessage picks the text shown to the user for err. Server messages from
// failed envelopes and local validation messages are shown as-is; transport
// failures collapse to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		return fallback
	}
	if IsValidation(err) {
		return err.Error()
	}
	return fallback
}
