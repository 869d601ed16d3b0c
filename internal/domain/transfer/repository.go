package transfer

import "context"

// Repository defines the interface for transfer record data access.
type Repository interface {
	// Create persists a new transfer record with channel/category defaults.
	Create(ctx context.Context, params CreateRecordParams) (*Record, error)

	// ListByBankID returns every record where the given bank connection is
	// sender or receiver.
	ListByBankID(ctx context.Context, bankID string) ([]*Record, error)
}
