// Package payments speaks the hosted-payments provider's HTTP API: checkout
// and customer-portal session creation, plus webhook signature verification.
// Requests are fire-once with a bounded timeout; there is no retry policy —
// a failed call surfaces directly to the caller.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 15 * time.Second

// Client calls the payments provider's REST API with form-encoded requests
// and bearer authentication.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a Client for the given API base URL and secret key.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Session is the provider's response to a session-creation call. URL is the
// redirect target for the browser.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payments API returned %d: %s", e.StatusCode, e.Message)
}

// CheckoutParams describes a checkout session to create.
type CheckoutParams struct {
	PriceID           string
	Mode              string // "payment" or "subscription"
	SuccessURL        string
	CancelURL         string
	CouponID          string
	CustomerID        string // reuse an existing billing customer when set
	CustomerEmail     string
	ClientReferenceID string // our user ID, echoed back on the webhook
}

// CreateCheckoutSession creates a hosted checkout session and returns it.
// The price ID is stashed in session metadata so the completion webhook can
// read it back without a second API call.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*Session, error) {
	form := url.Values{}
	form.Set("line_items[0][price]", p.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("mode", p.Mode)
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("metadata[price_id]", p.PriceID)
	if p.CouponID != "" {
		form.Set("discounts[0][coupon]", p.CouponID)
	}
	if p.ClientReferenceID != "" {
		form.Set("client_reference_id", p.ClientReferenceID)
	}
	// An existing customer takes precedence over a bare email.
	if p.CustomerID != "" {
		form.Set("customer", p.CustomerID)
	} else if p.CustomerEmail != "" {
		form.Set("customer_email", p.CustomerEmail)
	}

	return c.postSession(ctx, "/v1/checkout/sessions", form)
}

// CreatePortalSession creates a customer-portal session for an existing
// billing customer.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*Session, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	if returnURL != "" {
		form.Set("return_url", returnURL)
	}
	return c.postSession(ctx, "/v1/billing_portal/sessions", form)
}

func (c *Client) postSession(ctx context.Context, path string, form url.Values) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building payments request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling payments API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading payments response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractErrorMessage(body)}
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("decoding payments response: %w", err)
	}
	return &session, nil
}

func extractErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
