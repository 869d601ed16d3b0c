package payments

import "context"

// ClientInterface defines the methods required from the payment-rail client.
type ClientInterface interface {
	// CreateTransfer moves funds between two registered funding sources.
	CreateTransfer(ctx context.Context, params TransferParams) (*Transfer, error)
}
