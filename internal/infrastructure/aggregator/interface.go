package aggregator

import "context"

// ClientInterface defines the methods for interacting with the account
// aggregation vendor. Both reads are per-connection: the access token
// identifies one linked institution.
type ClientInterface interface {
	// GetAccounts fetches the accounts for one bank connection
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)

	// GetTransactions fetches recent transactions for one bank connection
	GetTransactions(ctx context.Context, accessToken string) (*TransactionsResponse, error)
}
