package payment

import (
	"errors"
	"net/url"
	"time"
)

var (
	ErrConfigMissingBaseURL = errors.New("mobilemoney: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("mobilemoney: base URL is not a valid URL")
	ErrConfigMissingAPIKey  = errors.New("mobilemoney: API key is required")
)

// Config holds mobile-money gateway connection settings
type Config struct {
	// BaseURL is the gateway API root, e.g. https://gateway.example.com
	BaseURL string
	// APIKey authenticates this back office with the gateway
	APIKey string
	// Timeout bounds each gateway HTTP call
	Timeout time.Duration
}

// Validate validates the gateway configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return ErrConfigInvalidBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
