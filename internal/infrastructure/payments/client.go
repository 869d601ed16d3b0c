// Package payments is the HTTP client for the payment-rail vendor that
// executes fund transfers between registered funding sources.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	transfersPath  = "/transfers"
)

// Client handles communication with the payment-rail API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ ClientInterface = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// TransferParams addresses a transfer by funding-source URL, never by
// account credential. Amount is a two-decimal string.
type TransferParams struct {
	SourceFundingURL      string
	DestinationFundingURL string
	Amount                string
	IdempotencyKey        string
}

// Transfer is the created transfer resource.
type Transfer struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Location string `json:"-"`
}

type link struct {
	Href string `json:"href"`
}

type transferRequest struct {
	Links  map[string]link `json:"_links"`
	Amount amountBody      `json:"amount"`
}

type amountBody struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateTransfer creates a funding-source-to-funding-source transfer.
// The idempotency key makes retried submissions safe on the vendor side.
func (c *Client) CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	payload := transferRequest{
		Links: map[string]link{
			"source":      {Href: params.SourceFundingURL},
			"destination": {Href: params.DestinationFundingURL},
		},
		Amount: amountBody{Currency: "USD", Value: params.Amount},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transfersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")
	if params.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", params.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return nil, fmt.Errorf("transfer request failed with status %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, fmt.Errorf("transfer rejected (status %d): %s - %s", resp.StatusCode, errResp.Code, errResp.Message)
	}

	var transfer Transfer
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &transfer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	transfer.Location = resp.Header.Get("Location")

	// The rail may answer 201 with an empty body and the new resource in
	// the Location header; the id is its last path segment.
	if transfer.ID == "" && transfer.Location != "" {
		transfer.ID = transfer.Location[strings.LastIndex(transfer.Location, "/")+1:]
	}
	if transfer.ID == "" {
		return nil, fmt.Errorf("transfer response carried no id or location")
	}

	return &transfer, nil
}
