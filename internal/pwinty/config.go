package pwinty

import (
	"net/http"
	"strings"
)

const (
	// DefaultHost is the sandbox endpoint used when no host is configured.
	DefaultHost = "https://sandbox.pwinty.com/v2.3/"

	headerMerchantID = "X-Pwinty-MerchantId"
	headerAPIKey     = "X-Pwinty-REST-API-Key"
)

// Config holds the merchant identity and endpoint for a Client. It is built
// once by NewConfig and never mutated afterwards.
type Config struct {
	merchantID string
	apiKey     string
	host       string
	headers    http.Header
}

// NewConfig builds a Config. An empty host selects DefaultHost.
func NewConfig(merchantID, apiKey, host string) Config {
	h := strings.TrimSpace(host)
	if h == "" {
		h = DefaultHost
	}
	if !strings.HasSuffix(h, "/") {
		h += "/"
	}

	headers := make(http.Header, 3)
	headers.Set("Accept", "application/json")
	headers.Set(headerMerchantID, merchantID)
	headers.Set(headerAPIKey, apiKey)

	return Config{
		merchantID: merchantID,
		apiKey:     apiKey,
		host:       h,
		headers:    headers,
	}
}

// MerchantID returns the merchant identity sent with every request.
func (c Config) MerchantID() string { return c.merchantID }

// Host returns the normalized base URL, always ending in a slash.
func (c Config) Host() string { return c.host }

// Headers returns a copy of the default headers. Callers may modify the
// returned value freely.
func (c Config) Headers() http.Header {
	return c.headers.Clone()
}

// String redacts the API key.
func (c Config) String() string {
	return "pwinty.Config{merchant=" + c.merchantID + " host=" + c.host + " key=" + redact(c.apiKey) + "}"
}

func redact(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
