package jsdb

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds each remote call when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultDatabase is the database every collection lives in.
const DefaultDatabase = "default"

// Config is the connection configuration handed to New.
type Config struct {
	ServerURL string
	APIKey    string
	Timeout   time.Duration
}

var (
	ErrMissingServerURL = errors.New("server URL is required")
	ErrMissingAPIKey    = errors.New("API key is required")
)

// Validate checks that the configuration can reach a server.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return ErrMissingServerURL
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL %q: missing host", c.ServerURL)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// Client talks to a JSDB server.
type Client struct {
	cfg        Config
	base       *url.URL
	httpClient *http.Client
	userAgent  string
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// New creates a Client for cfg. The configuration is copied; later changes
// by the caller do not affect the client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	base, err := url.Parse(strings.TrimRight(cfg.ServerURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", cfg.ServerURL, err)
	}

	c := &Client{
		cfg:        cfg,
		base:       base,
		httpClient: http.DefaultClient,
		userAgent:  "jsdb-cli",
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Collection returns a handle on an append-only collection in the default database.
func (c *Client) Collection(name string) *Collection {
	return &Collection{client: c, database: DefaultDatabase, name: name}
}

// endpoint resolves a path below the server URL.
func (c *Client) endpoint(segments ...string) string {
	return c.base.JoinPath(segments...).String()
}
