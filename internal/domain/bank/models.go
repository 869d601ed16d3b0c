package bank

import "errors"

var (
	ErrConnectionNotFound = errors.New("bank connection not found")
)

// Connection links a user to one external financial institution.
//
// The access token is the aggregator-vendor credential and must never be
// exposed through the API; the sharable id is the public-safe reference
// other users exchange to address transfers.
type Connection struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	AccountID        string `json:"accountId"`
	AccessToken      string `json:"-"`
	FundingSourceURL string `json:"-"`
	SharableID       string `json:"sharableId"`
}
