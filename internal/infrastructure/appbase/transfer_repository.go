package appbase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"horizon/internal/domain/transfer"
)

// TransferRepository implements transfer.Repository over the document
// database.
type TransferRepository struct {
	client       *Client
	databaseID   string
	collectionID string
}

var _ transfer.Repository = (*TransferRepository)(nil)

func NewTransferRepository(client *Client, databaseID, collectionID string) *TransferRepository {
	return &TransferRepository{
		client:       client,
		databaseID:   databaseID,
		collectionID: collectionID,
	}
}

// transferDocument is the wire form of a transfer record document.
type transferDocument struct {
	ID             string `json:"$id"`
	CreatedAt      string `json:"$createdAt"`
	Name           string `json:"name"`
	Amount         string `json:"amount"`
	Email          string `json:"email"`
	SenderID       string `json:"senderId"`
	SenderBankID   string `json:"senderBankId"`
	ReceiverID     string `json:"receiverId"`
	ReceiverBankID string `json:"receiverBankId"`
	Channel        string `json:"channel"`
	Category       string `json:"category"`
}

func (d *transferDocument) toRecord() *transfer.Record {
	createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return &transfer.Record{
		ID:             d.ID,
		Name:           d.Name,
		Amount:         d.Amount,
		Email:          d.Email,
		SenderID:       d.SenderID,
		SenderBankID:   d.SenderBankID,
		ReceiverID:     d.ReceiverID,
		ReceiverBankID: d.ReceiverBankID,
		Channel:        d.Channel,
		Category:       d.Category,
		CreatedAt:      createdAt,
	}
}

// Create persists a new transfer record, applying the channel and category
// defaults every peer-to-peer transfer carries.
func (r *TransferRepository) Create(ctx context.Context, params transfer.CreateRecordParams) (*transfer.Record, error) {
	data := map[string]string{
		"name":           params.Name,
		"amount":         params.Amount,
		"email":          params.Email,
		"senderId":       params.SenderID,
		"senderBankId":   params.SenderBankID,
		"receiverId":     params.ReceiverID,
		"receiverBankId": params.ReceiverBankID,
		"channel":        transfer.DefaultChannel,
		"category":       transfer.DefaultCategory,
	}

	var doc transferDocument
	if err := r.client.CreateDocument(ctx, r.databaseID, r.collectionID, uuid.NewString(), data, &doc); err != nil {
		return nil, fmt.Errorf("failed to create transfer record: %w", err)
	}

	return doc.toRecord(), nil
}

// ListByBankID returns records where the bank is sender or receiver.
// Two queries, merged; the document API has no OR filter.
func (r *TransferRepository) ListByBankID(ctx context.Context, bankID string) ([]*transfer.Record, error) {
	sent, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID, []Query{
		Equal("senderBankId", bankID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sent transfers: %w", err)
	}

	received, err := r.client.ListDocuments(ctx, r.databaseID, r.collectionID, []Query{
		Equal("receiverBankId", bankID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list received transfers: %w", err)
	}

	records := make([]*transfer.Record, 0, len(sent.Documents)+len(received.Documents))
	for _, raw := range append(sent.Documents, received.Documents...) {
		var doc transferDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode transfer document: %w", err)
		}
		records = append(records, doc.toRecord())
	}

	return records, nil
}
