package transfer

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Defaults applied to every transfer record, matching what the
	// dashboard displays for peer-to-peer transfers.
	DefaultChannel  = "online"
	DefaultCategory = "Transfer"

	minSharableIDLength = 8
)

// Domain errors
var (
	ErrForbidden = errors.New("access forbidden")
)

// ValidationError rejects a malformed transfer form before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Record is a completed peer-to-peer transfer stored in the document
// database. Amount is kept as the decimal string sent to the payment rail.
type Record struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Amount         string    `json:"amount"`
	Email          string    `json:"email"`
	SenderID       string    `json:"senderId"`
	SenderBankID   string    `json:"senderBankId"`
	ReceiverID     string    `json:"receiverId"`
	ReceiverBankID string    `json:"receiverBankId"`
	Channel        string    `json:"channel"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateRecordParams contains the attributes persisted for a new transfer.
type CreateRecordParams struct {
	Name           string
	Amount         string
	Email          string
	SenderID       string
	SenderBankID   string
	ReceiverID     string
	ReceiverBankID string
}

// Request is a transfer submission from the client.
type Request struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	SenderBank string `json:"senderBank"`
	SharableID string `json:"sharableId"`
}

// Validate checks the form fields. Runs before any vendor call.
func (r Request) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if r.Amount == "" {
		return &ValidationError{Field: "amount", Message: "is required"}
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return &ValidationError{Field: "amount", Message: "must be a decimal number"}
	}
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if r.SenderBank == "" {
		return &ValidationError{Field: "senderBank", Message: "is required"}
	}
	if len(r.SharableID) < minSharableIDLength {
		return &ValidationError{Field: "sharableId", Message: "is too short"}
	}
	return nil
}

// NormalizedAmount returns the amount as a two-decimal string, the form
// the payment rail expects. Validate must have passed.
func (r Request) NormalizedAmount() string {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return r.Amount
	}
	return amount.StringFixed(2)
}
