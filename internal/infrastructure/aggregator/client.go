// Package aggregator is the HTTP client for the Bankfeed account
// aggregation API.
package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://api.bankfeed.io"
	defaultTimeout   = 60 * time.Second
	accountsPath     = "/accounts/get"
	transactionsPath = "/transactions/get"

	retryBaseDelay = 250 * time.Millisecond
)

// Client handles communication with the Bankfeed API
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	maxRetries int
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Bankfeed API client. maxRetries is the number of
// additional attempts after the first on retryable failures; reads are
// idempotent so retrying is safe.
func NewClient(baseURL, clientID, secret string, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
		maxRetries: maxRetries,
	}
}

// AccountsResponse represents the API response for account data
type AccountsResponse struct {
	Accounts  []Account `json:"accounts"`
	Item      Item      `json:"item"`
	RequestID string    `json:"request_id"`
}

// Item describes the institution link the access token belongs to
type Item struct {
	ItemID        string `json:"item_id"`
	InstitutionID string `json:"institution_id"`
}

// Account represents an account from the Bankfeed API
type Account struct {
	AccountID    string   `json:"account_id"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Mask         string   `json:"mask"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Balances     Balances `json:"balances"`
}

// Balances holds the account balances. The vendor omits fields it cannot
// compute, so both are pointers.
type Balances struct {
	Available *float64 `json:"available"`
	Current   *float64 `json:"current"`
}

// TransactionsResponse represents the API response for transaction data
type TransactionsResponse struct {
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"total_transactions"`
	RequestID    string        `json:"request_id"`
}

// Transaction represents a transaction from the Bankfeed API
type Transaction struct {
	TransactionID  string   `json:"transaction_id"`
	AccountID      string   `json:"account_id"`
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	Pending        bool     `json:"pending"`
	Date           string   `json:"date"` // "2006-01-02" format
	PaymentChannel string   `json:"payment_channel"`
	Category       []string `json:"category"`
	Type           string   `json:"transaction_type"`
}

// GetDate parses and returns the transaction date
func (t *Transaction) GetDate() (*time.Time, error) {
	if t.Date == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date '%s': %w", t.Date, err)
	}
	return &parsed, nil
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

// apiError carries the HTTP status so the retry loop can tell client
// rejections from upstream failures.
type apiError struct {
	statusCode int
	errType    string
	message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("bankfeed error (status %d): %s - %s", e.statusCode, e.errType, e.message)
}

// retryable reports whether the failure is worth another attempt. Client
// errors are final; only upstream overload and transport failures retry.
func retryable(err error) bool {
	apiErr, ok := err.(*apiError)
	if !ok {
		return true // network / transport failure
	}
	return apiErr.statusCode >= 500 || apiErr.statusCode == http.StatusTooManyRequests
}

// GetAccounts fetches all accounts for one bank connection
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error) {
	var out AccountsResponse
	if err := c.post(ctx, accountsPath, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransactions fetches recent transactions for one bank connection
func (c *Client) GetTransactions(ctx context.Context, accessToken string) (*TransactionsResponse, error) {
	var out TransactionsResponse
	if err := c.post(ctx, transactionsPath, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post executes one read with bounded retries and exponential backoff.
func (c *Client) post(ctx context.Context, path, accessToken string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			delay += time.Duration(rand.Int63n(int64(retryBaseDelay)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.doPost(ctx, path, accessToken, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) doPost(ctx context.Context, path, accessToken string, out any) error {
	payload, err := json.Marshal(map[string]string{"access_token": accessToken})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("BF-Client-Id", c.clientID)
	req.Header.Set("BF-Secret", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return &apiError{statusCode: resp.StatusCode, message: string(body)}
		}
		return &apiError{
			statusCode: resp.StatusCode,
			errType:    errResp.ErrorType,
			message:    errResp.ErrorMessage,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
