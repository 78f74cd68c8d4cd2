package cli

import (
	"errors"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/spf13/cobra"
)

var (
	// ErrNotSignedIn is returned by commands that need a credential.
	ErrNotSignedIn = errors.New("you must be logged in; run: tinytrail login")

	// ErrNotInteractive is returned when input is missing and no terminal
	// is available to prompt for it.
	ErrNotInteractive = errors.New("not running in a terminal")
)

// apiError renders a backend failure for the terminal while keeping the
// underlying error matchable.
type apiError struct {
	action string
	err    error
}

func (e *apiError) Error() string {
	msg := e.action + ": " + analytics.ErrorMessage(e.err)
	if errors.Is(e.err, api.ErrUnauthorized) {
		msg += " (sign in again with: tinytrail login)"
	}
	return msg
}

func (e *apiError) Unwrap() error { return e.err }

func wrapAPI(action string, err error) error {
	if err == nil {
		return nil
	}
	return &apiError{action: action, err: err}
}

// requireSignedIn returns the command's session, or ErrNotSignedIn.
func requireSignedIn(cmd *cobra.Command) (*session.Session, error) {
	s := session.FromContext(cmd.Context())
	if !s.SignedIn() {
		return nil, ErrNotSignedIn
	}
	return s, nil
}
