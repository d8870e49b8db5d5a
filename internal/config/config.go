// Package config provides centralized configuration management for the
// table view server. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	View     ViewConfig
	Data     DataConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// ViewConfig holds the defaults applied to every new table view.
type ViewConfig struct {
	// PageSize is the initial number of rows per page (default: 10)
	PageSize int `env:"VIEW_PAGE_SIZE" default:"10"`

	// PageSizes are the sizes offered by the pager
	PageSizes []int `env:"VIEW_PAGE_SIZES" default:"5,10,25,50,100,250,500,1000,5000"`

	// WindowSize is how many page numbers the pager shows (default: 10)
	WindowSize int `env:"VIEW_WINDOW_SIZE" default:"10"`

	// HighlightStyle is the CSS class of the selected row (default: selected)
	HighlightStyle string `env:"VIEW_HIGHLIGHT_STYLE" default:"selected"`

	// Paginate draws the pager (default: true)
	Paginate bool `env:"VIEW_PAGINATE" default:"true"`

	DisableSelection bool `env:"VIEW_DISABLE_SELECTION" default:"false"`
	DisableSorting   bool `env:"VIEW_DISABLE_SORTING" default:"false"`
}

// DataConfig holds dataset loading settings.
type DataConfig struct {
	// Dir holds <key>.yaml schemas with their .csv or .json data (default: data)
	Dir string `env:"DATA_DIR" envAlt:"TABLEVIEW_DATA_DIR" default:"data"`
}

// SessionConfig bounds the live views kept by the server.
type SessionConfig struct {
	// MaxViews caps concurrently open views (default: 256)
	MaxViews int `env:"SESSION_MAX_VIEWS" default:"256"`

	// IdleTTL is how long an untouched view survives (default: 30m)
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" default:"30m"`

	// SweepInterval is how often idle views are dropped (default: 1m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// MutationLimit is requests per minute for endpoints that change records (default: 60)
	MutationLimit int `env:"RATE_LIMIT_MUTATIONS" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards the JSON API with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
