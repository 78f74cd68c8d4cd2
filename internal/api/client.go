package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// linkDateLayout is the local date-time format the per-link analytics
// endpoint expects.
const linkDateLayout = "2006-01-02T15:04:05"

// Client talks to the TinyTrail HTTP API. Every request passes through a
// BearerTransport, so the current credential is attached without callers
// threading it through.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer

	onUnauthorized func(ctx context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithOnUnauthorized registers a hook run when a protected call returns 401.
func WithOnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithBaseTransport replaces the transport beneath the bearer layer.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if bt, ok := c.http.Transport.(*BearerTransport); ok {
			bt.Base = rt
		}
	}
}

// NewClient creates a Client that reads credentials from source.
func NewClient(cfg Config, source CredentialSource, observer Observer, opts ...Option) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &BearerTransport{
				Base: &http.Transport{
					Proxy: http.ProxyFromEnvironment,
					DialContext: (&net.Dialer{
						Timeout: 5 * time.Second,
					}).DialContext,
				},
				Source: source,
			},
		},
		observer: observer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges a username and password for a credential.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var body loginBody
	if err := c.do(ctx, http.MethodPost, "/api/auth/public/login", nil, req, &body, false); err != nil {
		return nil, err
	}
	token := body.token()
	username := body.Username
	if username == "" {
		username = req.Username
	}
	return &LoginResponse{Token: token, Username: username}, nil
}

// Register creates an account. The response body is ignored.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/public/register", nil, req, nil, false)
}

// TotalClicks returns the raw per-day totals for the signed-in user.
// Interpreting the payload is left to the caller.
func (c *Client) TotalClicks(ctx context.Context, start, end string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("startDate", start)
	q.Set("endDate", end)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/urls/totalclicks", q, nil, &raw, true); err != nil {
		return nil, err
	}
	return raw, nil
}

// Shorten creates a short link for originalURL.
func (c *Client) Shorten(ctx context.Context, originalURL string) (*URLMapping, error) {
	var m URLMapping
	err := c.do(ctx, http.MethodPost, "/api/urls/shorten", nil, shortenRequest{OriginalURL: originalURL}, &m, true)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MyURLs lists the signed-in user's links.
func (c *Client) MyURLs(ctx context.Context) ([]URLMapping, error) {
	var out []URLMapping
	if err := c.do(ctx, http.MethodGet, "/api/urls/myurls", nil, nil, &out, true); err != nil {
		return nil, err
	}
	if out == nil {
		out = []URLMapping{}
	}
	return out, nil
}

// LinkAnalytics returns per-day clicks for one short link.
func (c *Client) LinkAnalytics(ctx context.Context, shortURL string, start, end time.Time) ([]ClickEvent, error) {
	q := url.Values{}
	q.Set("startDate", start.Format(linkDateLayout))
	q.Set("endDate", end.Format(linkDateLayout))

	var out []ClickEvent
	path := "/api/urls/analytics/" + url.PathEscape(shortURL)
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out, true); err != nil {
		return nil, err
	}
	if out == nil {
		out = []ClickEvent{}
	}
	return out, nil
}

// PublicURL returns the address a short link is served from.
func (c *Client) PublicURL(short string) string {
	return strings.TrimRight(c.cfg.PublicBaseURL, "/") + "/" + strings.TrimLeft(short, "/")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, protected bool) error {
	start := time.Now()
	requestID := uuid.NewString()

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.timeoutMs())*time.Millisecond)
	defer cancel()

	status, err := c.roundTrip(callCtx, method, path, query, requestID, in, out)

	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})

	if protected && status == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, requestID string, in, out any) (int, error) {
	endpoint := c.cfg.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    messageOf(respBody),
			Body:       respBody,
		}
	}

	switch dst := out.(type) {
	case nil:
	case *json.RawMessage:
		*dst = append(json.RawMessage(nil), respBody...)
	default:
		if err := json.Unmarshal(respBody, dst); err != nil {
			return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
		}
	}
	if v, ok := out.(validator); ok {
		if err := v.validate(); err != nil {
			return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
		}
	}
	return resp.StatusCode, nil
}

// validator is implemented by response bodies that decode but can still
// be unusable.
type validator interface {
	validate() error
}

// messageOf extracts the "message" field from an error body.
func messageOf(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Message, &s); err == nil {
		return s
	}
	return string(payload.Message)
}

func errorCode(err error) string {
	var respErr *ResponseError
	var statusErr *StatusError
	var netErr *net.OpError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.As(err, &netErr):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.As(err, &respErr):
		return fmt.Sprintf("HTTP_%d", respErr.StatusCode)
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
