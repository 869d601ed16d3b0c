// Package account aggregates live balances and transactions across a
// user's bank connections.
package account

import (
	"encoding/json"
	"time"
)

// Transaction types as reported by the aggregation vendor
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Snapshot is the live view of one linked account, combining vendor
// balance data with the stored connection metadata.
type Snapshot struct {
	ID               string  `json:"id"`
	AvailableBalance float64 `json:"availableBalance"`
	CurrentBalance   float64 `json:"currentBalance"`
	InstitutionID    string  `json:"institutionId"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"officialName"`
	Mask             string  `json:"mask"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype"`
	ConnectionID     string  `json:"connectionId"`
	SharableID       string  `json:"sharableId"`
}

// Transaction is one account movement, from the aggregation vendor or
// from an internal peer-to-peer transfer record.
type Transaction struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Amount         float64   `json:"amount"`
	Pending        bool      `json:"pending"`
	Date           time.Time `json:"date"`
	PaymentChannel string    `json:"paymentChannel"`
	Category       string    `json:"category"`
	Type           string    `json:"type"`
}

// IsDebit reports whether the transaction took money out of the account.
// Vendors occasionally disagree between the type field and the amount
// sign, so either signal counts.
func (t *Transaction) IsDebit() bool {
	return t.Type == TypeDebit || t.Amount < 0
}

// MarshalJSON adds the computed debit classification so consumers do not
// re-derive it from the type field and the amount sign.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	return json.Marshal(&struct {
		*plain
		Debit bool `json:"debit"`
	}{(*plain)(t), t.IsDebit()})
}

// AccountList is the summary of all of a user's linked accounts.
type AccountList struct {
	Data                []*Snapshot `json:"data"`
	TotalBanks          int         `json:"totalBanks"`
	TotalCurrentBalance float64     `json:"totalCurrentBalance"`
}

// Detail is one account with its merged transaction history, newest first.
type Detail struct {
	Account      *Snapshot      `json:"data"`
	Transactions []*Transaction `json:"transactions"`
}
