// internal/crm/client.go
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Config represents the configuration for the CRM client
type Config struct {
	// BaseURL is the base URL of the host CRM API
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
		BaseURL:    "http://localhost:8000/api",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client talks to the host platform's contact/lead store. The core does not
// own the CRM schema; this is the narrow surface it needs.
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

// Contact is the CRM-side record created for an allocated identity.
type Contact struct {
	ID            string `json:"id,omitempty"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Organization  string `json:"organization"`
	LicenseNumber string `json:"license_number"`
}

// Lead is an unconverted candidate tracked by campaign code.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContact records an allocated identity in the CRM.
func (c *Client) CreateContact(ctx context.Context, contact *Contact) error {
	if contact == nil {
		return errors.New("contact cannot be nil")
	}
	if contact.Email == "" && contact.Phone == "" {
		return errors.New("contact needs an email or phone")
	}

	endpoint := fmt.Sprintf("%s/contacts", c.config.BaseURL)
	return c.post(ctx, endpoint, contact, contact)
}

// FindLeadsByCampaign returns the leads attributed to a campaign code that
// have not been converted or opted out.
func (c *Client) FindLeadsByCampaign(ctx context.Context, campaignCode string) ([]Lead, error) {
	if campaignCode == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("campaign_code", campaignCode)
	params.Set("exclude_status", "converted,do_not_contact")

	endpoint := fmt.Sprintf("%s/leads?%s", c.config.BaseURL, params.Encode())

	var leads []Lead
	if err := c.get(ctx, endpoint, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateLeadStatus moves a lead to a new status, typically "converted" once
// its identity has been allocated a license.
func (c *Client) UpdateLeadStatus(ctx context.Context, leadID, status string) error {
	if leadID == "" || status == "" {
		return errors.New("lead_id and status are required")
	}

	endpoint := fmt.Sprintf("%s/leads/%s", c.config.BaseURL, url.PathEscape(leadID))
	body := map[string]string{"status": status}
	return c.post(ctx, endpoint, body, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("CRM request failed with status code %d", httpResp.StatusCode)
	}

	if resp != nil {
		if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	c.setAuthHeaders(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("CRM request failed with status code %d", httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "token "+c.config.APIKey)
	}
}
