package bank

import "context"

// Repository defines the interface for bank connection data access.
// Defined in the domain layer, implemented against the document database.
type Repository interface {
	// ListByUserID returns all connections owned by the user, in stable
	// creation order. An empty list is not an error.
	ListByUserID(ctx context.Context, userID string) ([]*Connection, error)

	// GetByID retrieves a connection by its document id.
	GetByID(ctx context.Context, id string) (*Connection, error)

	// GetByAccountID retrieves the connection holding the given external
	// account id (used to resolve decoded sharable ids).
	GetByAccountID(ctx context.Context, accountID string) (*Connection, error)
}
