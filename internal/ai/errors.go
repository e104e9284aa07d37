package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/maticai/matic/internal/constants"
)

// ErrOverloaded is wrapped by errors from a provider reporting it is overloaded.
var ErrOverloaded = errors.New("ai service overloaded")

// APIError is a failed AI function call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ai service returned status %d", e.Status)
	}
	return fmt.Sprintf("ai service returned status %d: %s", e.Status, e.Message)
}

// Overloaded reports whether the message carries the provider's overload marker.
func (e *APIError) Overloaded() bool {
	return strings.Contains(strings.ToLower(e.Message), constants.OverloadMarker)
}

// Temporary marks errors worth retrying later.
func (e *APIError) Temporary() bool {
	return e.Overloaded() || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

func (e *APIError) Unwrap() error {
	if e.Overloaded() {
		return ErrOverloaded
	}
	return nil
}
