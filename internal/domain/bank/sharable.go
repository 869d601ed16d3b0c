package bank

import (
	"encoding/base64"
	"fmt"
)

// EncodeSharableID turns an external account id into its public-safe form.
// The encoding is reversible on purpose: the sharable id addresses a
// transfer without ever exposing the access credential.
func EncodeSharableID(accountID string) string {
	return base64.StdEncoding.EncodeToString([]byte(accountID))
}

// DecodeSharableID recovers the external account id from a sharable id.
func DecodeSharableID(sharableID string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(sharableID)
	if err != nil {
		return "", fmt.Errorf("invalid sharable id: %w", err)
	}
	return string(decoded), nil
}
