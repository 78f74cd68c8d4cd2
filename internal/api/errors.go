package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches a 401 response.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches a 403 response.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidResponse indicates a 2xx body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response body")
)

// ResponseError is returned when the server answered with a non-2xx status.
type ResponseError struct {
	StatusCode int
	// Message is the body's "message" field, when present.
	Message string
	Body    []byte
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Is lets errors.Is match ResponseError against the status sentinels.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// StatusError is returned when the server answered but its response could
// not be used: the body was cut short, or a 2xx body did not decode. The
// status is known even though no ResponseError could be built.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Is matches the status sentinels the same way ResponseError does.
func (e *StatusError) Is(target error) bool {
	return (&ResponseError{StatusCode: e.StatusCode}).Is(target)
}
