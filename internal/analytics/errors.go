package analytics

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/tinytrail/internal/api"
)

// ErrInvalidRange is matched by every date-range validation failure.
var ErrInvalidRange = errors.New("invalid date range")

// RangeError describes why a date range was rejected. Reason is shown
// to the user as is.
type RangeError struct {
	Reason string
}

func (e *RangeError) Error() string { return e.Reason }

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// ErrorMessage renders a fetch failure for display.
func ErrorMessage(err error) string {
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return rangeErr.Reason
	}
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		if respErr.Message != "" {
			return fmt.Sprintf("Server Error (%d): %s", respErr.StatusCode, respErr.Message)
		}
		return fmt.Sprintf("Server Error (%d): The server returned an unexpected error.", respErr.StatusCode)
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Server Error (%d): The server returned an unexpected error.", statusErr.StatusCode)
	}
	return "Server Error (N/A): Network Error."
}
