package api

import "strings"

const defaultTimeoutMs = 10000

// Config holds the backend addresses and per-call timeout.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080.
	BaseURL string
	// PublicBaseURL is the prefix short links are served from.
	PublicBaseURL string
	TimeoutMs     int
}

// DefaultConfig returns settings for a backend running on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		PublicBaseURL: "http://localhost:8080/",
		TimeoutMs:     defaultTimeoutMs,
	}
}

func (c Config) timeoutMs() int {
	if c.TimeoutMs <= 0 {
		return defaultTimeoutMs
	}
	return c.TimeoutMs
}

func (c Config) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}
