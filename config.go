package venmo

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config is the environment-driven configuration of a [Client]. Variables
// carry the VENMO_ prefix, e.g. VENMO_ACCESS_TOKEN.
type Config struct {
	AccessToken string        `envconfig:"ACCESS_TOKEN" required:"true"`
	DeviceID    string        `envconfig:"DEVICE_ID"`
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api.venmo.com/v1"`
	GraphQLURL  string        `envconfig:"GRAPHQL_URL" default:"https://api.venmo.com/graphql"`
	UserAgent   string        `envconfig:"USER_AGENT"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	RetryCount  int           `envconfig:"RETRY_COUNT" default:"0"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads VENMO_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("VENMO", &cfg); err != nil {
		return nil, fmt.Errorf("load venmo config: %w", err)
	}

	return &cfg, nil
}

// Options converts the configuration into client options.
func (c *Config) Options() []Option {
	return []Option{
		WithBaseURL(c.BaseURL),
		WithGraphQLURL(c.GraphQLURL),
		WithDeviceID(c.DeviceID),
		WithUserAgent(c.UserAgent),
		WithTimeout(c.Timeout),
		WithRetryCount(c.RetryCount),
	}
}

// NewFromConfig creates a client from cfg. Options in opts are applied after
// the ones derived from cfg.
func NewFromConfig(cfg *Config, opts ...Option) *Client {
	return New(cfg.AccessToken, append(cfg.Options(), opts...)...)
}

// MarshalZerologObject logs the configuration without the access token.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	e.Str("base_url", c.BaseURL).
		Str("graphql_url", c.GraphQLURL).
		Bool("device_id_set", c.DeviceID != "").
		Str("user_agent", c.UserAgent).
		Dur("timeout", c.Timeout).
		Int("retry_count", c.RetryCount).
		Str("log_level", c.LogLevel)
}
