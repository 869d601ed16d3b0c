package appbase

import (
	"context"
	"encoding/json"
	"fmt"

	"horizon/internal/domain/bank"
)

// BankRepository implements bank.Repository over the document database.
type BankRepository struct {
	client       *Client
	databaseID   string
	collectionID string
}

var _ bank.Repository = (*BankRepository)(nil)

func NewBankRepository(client *Client, databaseID, collectionID string) *BankRepository {
	return &BankRepository{
		client:       client,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

// bankDocument is the wire form of a bank connection document.
type bankDocument struct {
	ID               string `json:"$id"`
	UserID           string `json:"userId"`
	AccountID        string `json:"accountId"`
	AccessToken      string `json:"accessToken"`
	FundingSourceURL string `json:"fundingSourceUrl"`
	SharableID       string `json:"sharableId"`
}

func (d *bankDocument) toConnection() *bank.Connection {
	return &bank.Connection{
		ID:               d.ID,
		UserID:           d.UserID,
		AccountID:        d.AccountID,
		AccessToken:      d.AccessToken,
		FundingSourceURL: d.FundingSourceURL,
		SharableID:       d.SharableID,
	}
}

// ListByUserID returns the user's connections in creation order. The order
// is stable so downstream aggregation output is deterministic.
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.Connection, error) {
	list, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID, []Query{
		Equal("userId", userID),
		OrderAsc("$createdAt"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bank connections: %w", err)
	}

	connections := make([]*bank.Connection, 0, len(list.Documents))
	for _, raw := range list.Documents {
		var doc bankDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode bank document: %w", err)
		}
		connections = append(connections, doc.toConnection())
	}

	return connections, nil
}

// GetByID retrieves a connection by its document id.
func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.Connection, error) {
	var doc bankDocument
	if err := r.client.GetDocument(ctx, r.databaseID, r.collectionID, id, &doc); err != nil {
		if IsNotFound(err) {
			return nil, bank.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get bank connection: %w", err)
	}
	return doc.toConnection(), nil
}

// GetByAccountID retrieves the connection holding the given external
// account id.
func (r *BankRepository) GetByAccountID(ctx context.Context, accountID string) (*bank.Connection, error) {
	list, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID, []Query{
		Equal("accountId", accountID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query bank connection by account: %w", err)
	}
	if len(list.Documents) == 0 {
		return nil, bank.ErrConnectionNotFound
	}

	var doc bankDocument
	if err := json.Unmarshal(list.Documents[0], &doc); err != nil {
		return nil, fmt.Errorf("failed to decode bank document: %w", err)
	}
	return doc.toConnection(), nil
}
