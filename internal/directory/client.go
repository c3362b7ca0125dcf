// internal/directory/client.go
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/parlohq/licenser/internal/identity"
)

// Config represents the configuration for the directory lookup client
type Config struct {
	// BaseURL is the base URL of the directory service
	BaseURL string
	// APIKey authenticates privileged calls such as Redeem
	APIKey string
	// SessionCookie is an optional session cookie forwarded on every call
	SessionCookie string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://cms.parlo.london/api/v1",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client talks to the external user directory. It implements
// identity.DirectoryLookup.
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

// Lookup searches the directory for a user by email or phone number. A 404
// is a clean miss, not an error; any other non-2xx response is.
func (c *Client) Lookup(ctx context.Context, email, phone string) (identity.LookupResult, error) {
	if email == "" && phone == "" {
		return identity.LookupResult{}, errors.New("email or phone number required")
	}

	params := url.Values{}
	if email != "" {
		params.Set("email", email)
	} else {
		params.Set("phoneNumber", phone)
	}

	endpoint := fmt.Sprintf("%s/users/search?%s", c.config.BaseURL, params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.LookupResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	c.setAuthHeaders(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return identity.LookupResult{}, fmt.Errorf("directory lookup: %w", err)
	}
	defer httpResp.Body.Close()

	switch httpResp.StatusCode {
	case http.StatusOK:
		return identity.LookupResult{Found: true, RawStatus: httpResp.StatusCode}, nil
	case http.StatusNotFound:
		return identity.LookupResult{Found: false, RawStatus: httpResp.StatusCode}, nil
	default:
		return identity.LookupResult{}, &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    messageForStatus(httpResp.StatusCode),
		}
	}
}

// RedeemRequest activates a seat for an identity with the upstream service.
type RedeemRequest struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// RedeemResponse represents the upstream answer to a redeem call.
type RedeemResponse struct {
	StatusCode int    `json:"-"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
}

// Redeem activates agent access for the identity. Called after a successful
// allocation; failures are the caller's to log, never to roll back on.
func (c *Client) Redeem(ctx context.Context, req *RedeemRequest) (*RedeemResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Email == "" && req.PhoneNumber == "" {
		return nil, errors.New("email or phone number required")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/agents/redeem", c.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.config.APIKey)
	c.setAuthHeaders(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	resp := &RedeemResponse{
		StatusCode: httpResp.StatusCode,
		Success:    httpResp.StatusCode == http.StatusOK,
		Message:    messageForStatus(httpResp.StatusCode),
	}
	return resp, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.config.SessionCookie != "" {
		req.Header.Set("Cookie", fmt.Sprintf("SESSION=%s", c.config.SessionCookie))
	}
}

// APIError defines a standardized error response from the directory API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
}

func messageForStatus(status int) string {
	switch status {
	case http.StatusOK:
		return "Success"
	case http.StatusUnauthorized:
		return "Unauthorized - Invalid credentials"
	case http.StatusNotFound:
		return "User not found"
	case http.StatusConflict:
		return "User has already purchased full access or duplicate request"
	case http.StatusRequestTimeout:
		return "Request timeout"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return fmt.Sprintf("Unknown error (Status: %d)", status)
	}
}
