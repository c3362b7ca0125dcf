// internal/deliverability/client.go
package deliverability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/parlohq/licenser/internal/identity"
)

// Config represents the configuration for the deliverability client
type Config struct {
	// BaseURL is the base URL of the verification service
	BaseURL string
	// APIKey authenticates every call
	APIKey string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.millionverifier.com/api/v3/",
		HTTPClient: http.DefaultClient,
		Timeout:    15 * time.Second,
	}
}

// Client talks to the external email deliverability service. It implements
// identity.DeliverabilityChecker and is only consulted as the fallback tier
// after a directory miss.
type Client struct {
	config *Config
	client *http.Client
}

func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

type verifyResponse struct {
	Result  string `json:"result"`
	Quality string `json:"quality,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckEmail asks the service whether the address is deliverable. The
// upstream "ok" and "valid" results both count as deliverable.
func (c *Client) CheckEmail(ctx context.Context, email string) (identity.DeliverabilityResult, error) {
	if email == "" {
		return identity.DeliverabilityResult{}, errors.New("email is required")
	}

	params := url.Values{}
	params.Set("api", c.config.APIKey)
	params.Set("email", email)
	params.Set("timeout", "10")

	endpoint := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.DeliverabilityResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return identity.DeliverabilityResult{}, fmt.Errorf("deliverability check: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return identity.DeliverabilityResult{}, fmt.Errorf("deliverability API returned status %d", httpResp.StatusCode)
	}

	var resp verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return identity.DeliverabilityResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return identity.DeliverabilityResult{
		Deliverable: resp.Result == "ok" || resp.Result == "valid",
		RawResult:   resp.Result,
	}, nil
}
