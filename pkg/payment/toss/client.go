package toss

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Toss Payments REST API. Payment widgets run in
// the storefront; the backend only confirms and cancels payments.
type Client struct {
	config     Config
	httpClient *http.Client
}

type Config struct {
	BaseURL   string
	SecretKey string
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	return nil
}

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type ConfirmResponse struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
	Method      string `json:"method"`
	ApprovedAt  string `json:"approvedAt"`
}

type CancelRequest struct {
	CancelReason string `json:"cancelReason"`
}

type CancelResponse struct {
	PaymentKey string `json:"paymentKey"`
	Status     string `json:"status"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm finalizes an authorized payment. The amount must match the
// amount the widget was opened with or the API rejects the call.
func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResponse, error) {
	resp, err := c.doRequest(ctx, "/v1/payments/confirm", req)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	var confirmResp ConfirmResponse
	if err := json.Unmarshal(resp, &confirmResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confirm response: %w", err)
	}
	return &confirmResp, nil
}

// Cancel voids a confirmed payment.
func (c *Client) Cancel(ctx context.Context, paymentKey string, req CancelRequest) (*CancelResponse, error) {
	path := fmt.Sprintf("/v1/payments/%s/cancel", paymentKey)
	resp, err := c.doRequest(ctx, path, req)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel payment: %w", err)
	}

	var cancelResp CancelResponse
	if err := json.Unmarshal(resp, &cancelResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cancel response: %w", err)
	}
	return &cancelResp, nil
}

func (c *Client) doRequest(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Secret key goes in as HTTP basic auth with an empty password.
	credentials := base64.StdEncoding.EncodeToString([]byte(c.config.SecretKey + ":"))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
			return nil, fmt.Errorf("payment API error %s: %s", apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("payment API returned status %d", resp.StatusCode)
	}

	return body, nil
}
