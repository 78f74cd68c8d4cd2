package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is what the fake backend saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
	RequestID     string
	Body          map[string]any
}

type fakeUser struct {
	email    string
	password string
}

type fakeLink struct {
	ID          int64  `json:"id"`
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl"`
	ClickCount  int64  `json:"clickCount"`
	CreatedDate string `json:"createdDate"`
	Username    string `json:"username"`
}

// FakeBackend is an httptest server speaking the TinyTrail HTTP API.
// Tokens are issued as "tok-<username>"; protected routes reject anything else with 401.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	users       map[string]fakeUser
	links       []fakeLink
	totalClicks string
	linkClicks  map[string]string
	overrides   map[string]http.HandlerFunc
	requests    []RecordedRequest
}

// NewFakeBackend starts a fake backend that is closed when the test completes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		users:       make(map[string]fakeUser),
		totalClicks: `{}`,
		linkClicks:  make(map[string]string),
		overrides:   make(map[string]http.HandlerFunc),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base address of the fake backend.
func (b *FakeBackend) URL() string { return b.Server.URL }

// TokenFor returns the credential the backend issues to username.
func TokenFor(username string) string { return "tok-" + username }

// AddUser registers an account directly.
func (b *FakeBackend) AddUser(username, email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = fakeUser{email: email, password: password}
}

// SetTotalClicks sets the raw JSON body returned by /api/urls/totalclicks.
func (b *FakeBackend) SetTotalClicks(body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.totalClicks = body
}

// SetLinkClicks sets the raw JSON body returned by /api/urls/analytics/{short}.
func (b *FakeBackend) SetLinkClicks(short, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.linkClicks[short] = body
}

// Override replaces the handler for an exact path.
func (b *FakeBackend) Override(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[path] = h
}

// Requests returns a copy of every request received so far.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// Hits counts requests received for path.
func (b *FakeBackend) Hits(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         make(map[string]string),
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
	}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil && r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	override := b.overrides[r.URL.Path]
	b.mu.Unlock()

	if override != nil {
		override(w, r)
		return
	}

	switch {
	case r.URL.Path == "/api/auth/public/login" && r.Method == http.MethodPost:
		b.login(w, rec.Body)
	case r.URL.Path == "/api/auth/public/register" && r.Method == http.MethodPost:
		b.register(w, rec.Body)
	case strings.HasPrefix(r.URL.Path, "/api/urls/"):
		user, ok := b.authenticate(rec.Authorization)
		if !ok {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		b.urls(w, r, user, rec.Body)
	default:
		http.NotFound(w, r)
	}
}

func (b *FakeBackend) login(w http.ResponseWriter, body map[string]any) {
	username, _ := body["username"].(string)
	password, _ := body["password"].(string)

	b.mu.Lock()
	u, ok := b.users[username]
	b.mu.Unlock()

	if !ok || u.password != password {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"token": TokenFor(username)})
}

func (b *FakeBackend) register(w http.ResponseWriter, body map[string]any) {
	username, _ := body["username"].(string)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[username]; exists {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Username is already taken"})
		return
	}
	b.users[username] = fakeUser{email: email, password: password}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

func (b *FakeBackend) authenticate(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	username, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, exists := b.users[username]
	return username, exists
}

func (b *FakeBackend) urls(w http.ResponseWriter, r *http.Request, user string, body map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.URL.Path == "/api/urls/totalclicks" && r.Method == http.MethodGet:
		writeRaw(w, b.totalClicks)
	case r.URL.Path == "/api/urls/shorten" && r.Method == http.MethodPost:
		original, _ := body["originalUrl"].(string)
		link := fakeLink{
			ID:          int64(len(b.links) + 1),
			OriginalURL: original,
			ShortURL:    fmt.Sprintf("s%07d", len(b.links)+1),
			CreatedDate: "2025-10-20T10:00:00",
			Username:    user,
		}
		b.links = append(b.links, link)
		WriteJSON(w, http.StatusOK, link)
	case r.URL.Path == "/api/urls/myurls" && r.Method == http.MethodGet:
		mine := make([]fakeLink, 0)
		for _, l := range b.links {
			if l.Username == user {
				mine = append(mine, l)
			}
		}
		WriteJSON(w, http.StatusOK, mine)
	case strings.HasPrefix(r.URL.Path, "/api/urls/analytics/"):
		short := strings.TrimPrefix(r.URL.Path, "/api/urls/analytics/")
		body, ok := b.linkClicks[short]
		if !ok {
			body = `[]`
		}
		writeRaw(w, body)
	default:
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "No static resource"})
	}
}

func writeRaw(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
