package api

import (
	"context"
	"net/http"
)

// CredentialSource yields the current credential. Read must not block.
type CredentialSource interface {
	Read(ctx context.Context) (string, bool)
}

// BearerTransport attaches the current credential to every outgoing
// request. It reads the source once per request, never retries, and
// returns the base transport's errors untouched.
type BearerTransport struct {
	Base   http.RoundTripper
	Source CredentialSource
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Source == nil {
		return base.RoundTrip(req)
	}

	token, ok := t.Source.Read(req.Context())
	if !ok || token == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return base.RoundTrip(authed)
}
