package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type staticSource struct {
	token string
	ok    bool
	reads atomic.Int32
}

func (s *staticSource) Read(context.Context) (string, bool) {
	s.reads.Add(1)
	return s.token, s.ok
}

func captureAuth(seen *string) roundTripperFunc {
	return func(r *http.Request) (*http.Response, error) {
		*seen = r.Header.Get("Authorization")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	}
}

func TestBearerTransport_AttachesCredential(t *testing.T) {
	var seen string
	src := &staticSource{token: "abc", ok: true}
	rt := &BearerTransport{Base: captureAuth(&seen), Source: src}

	req, err := http.NewRequest(http.MethodGet, "http://example.test/api/urls/myurls", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", seen)
	assert.Equal(t, int32(1), src.reads.Load())
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request must not be mutated")
}

func TestBearerTransport_NoCredentialNoHeader(t *testing.T) {
	for _, src := range []*staticSource{
		{ok: false},
		{token: "", ok: true},
	} {
		var seen string
		rt := &BearerTransport{Base: captureAuth(&seen), Source: src}

		req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
		require.NoError(t, err)
		_, err = rt.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, seen)
	}
}

func TestBearerTransport_NilSource(t *testing.T) {
	var seen string
	rt := &BearerTransport{Base: captureAuth(&seen)}

	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestBearerTransport_ReadsOncePerRequest(t *testing.T) {
	var seen string
	src := &staticSource{token: "abc", ok: true}
	rt := &BearerTransport{Base: captureAuth(&seen), Source: src}

	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
		require.NoError(t, err)
		_, err = rt.RoundTrip(req)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), src.reads.Load())
}

func TestBearerTransport_ErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	rt := &BearerTransport{
		Base: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return nil, boom
		}),
		Source: &staticSource{token: "abc", ok: true},
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)

	assert.Nil(t, resp)
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls, "no retries")
}
