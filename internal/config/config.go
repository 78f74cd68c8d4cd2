// Package config loads client settings from defaults, an optional YAML
// file, and TINYTRAIL_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds connection parameters for the TinyTrail backend.
type APIConfig struct {
	BaseURL       string
	PublicBaseURL string
	TimeoutMs     int
	LogCalls      bool
}

// Config holds all client configuration.
type Config struct {
	API                  APIConfig
	StoragePath          string
	LogLevel             string
	LogFormat            string
	LogoutOnUnauthorized bool
	KeepStaleOnError     bool
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"api.base_url":                  "TINYTRAIL_API_BASE_URL",
	"api.public_base_url":           "TINYTRAIL_PUBLIC_BASE_URL",
	"api.timeout_ms":                "TINYTRAIL_API_TIMEOUT_MS",
	"api.log_calls":                 "TINYTRAIL_LOG_CALLS",
	"storage.path":                  "TINYTRAIL_DB",
	"log.level":                     "TINYTRAIL_LOG_LEVEL",
	"log.format":                    "TINYTRAIL_LOG_FORMAT",
	"auth.logout_on_unauthorized":   "TINYTRAIL_LOGOUT_ON_UNAUTHORIZED",
	"analytics.keep_stale_on_error": "TINYTRAIL_KEEP_STALE_ON_ERROR",
}

// Dir returns the per-user state directory, ~/.tinytrail.
func Dir(home string) string {
	return filepath.Join(home, ".tinytrail")
}

// DefaultConfig returns a Config with sensible defaults rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8080",
			PublicBaseURL: "http://localhost:8080/",
			TimeoutMs:     10000,
			LogCalls:      false,
		},
		StoragePath:          filepath.Join(Dir(home), "tinytrail.db"),
		LogLevel:             "warn",
		LogFormat:            "text",
		LogoutOnUnauthorized: true,
		KeepStaleOnError:     false,
	}
}

// Load reads configuration. An empty file path looks for config.yaml in
// ~/.tinytrail and tolerates its absence; an explicit path must exist.
// Invalid numeric overrides are ignored in favor of the default.
func Load(file string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return load(file, home)
}

func load(file, home string) (Config, error) {
	def := DefaultConfig(home)

	v := viper.New()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.public_base_url", def.API.PublicBaseURL)
	v.SetDefault("api.timeout_ms", def.API.TimeoutMs)
	v.SetDefault("api.log_calls", def.API.LogCalls)
	v.SetDefault("storage.path", def.StoragePath)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)
	v.SetDefault("auth.logout_on_unauthorized", def.LogoutOnUnauthorized)
	v.SetDefault("analytics.keep_stale_on_error", def.KeepStaleOnError)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	} else {
		v.AddConfigPath(Dir(home))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL:       v.GetString("api.base_url"),
			PublicBaseURL: v.GetString("api.public_base_url"),
			TimeoutMs:     v.GetInt("api.timeout_ms"),
			LogCalls:      v.GetBool("api.log_calls"),
		},
		StoragePath:          v.GetString("storage.path"),
		LogLevel:             v.GetString("log.level"),
		LogFormat:            v.GetString("log.format"),
		LogoutOnUnauthorized: v.GetBool("auth.logout_on_unauthorized"),
		KeepStaleOnError:     v.GetBool("analytics.keep_stale_on_error"),
	}

	if cfg.API.TimeoutMs <= 0 {
		cfg.API.TimeoutMs = def.API.TimeoutMs
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = def.API.BaseURL
	}
	if cfg.API.PublicBaseURL == "" {
		cfg.API.PublicBaseURL = cfg.API.BaseURL + "/"
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = def.StoragePath
	}

	return cfg, nil
}
