package bank

import "testing"

func TestSharableIDRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		accountID string
	}{
		{name: "simple id", accountID: "acc-7341"},
		{name: "vendor-shaped id", accountID: "BxBXxMDjlJujWZKnZQpnhNEKWgAmZ4ckJGoqe"},
		{name: "empty", accountID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeSharableID(tt.accountID)
			decoded, err := DecodeSharableID(encoded)
			if err != nil {
				t.Fatalf("DecodeSharableID(%q) failed: %v", encoded, err)
			}
			if decoded != tt.accountID {
				t.Errorf("round trip = %q, want %q", decoded, tt.accountID)
			}
		})
	}
}

func TestDecodeSharableID_Invalid(t *testing.T) {
	if _, err := DecodeSharableID("!!not-base64!!"); err == nil {
		t.Error("DecodeSharableID expected error for invalid input, got nil")
	}
}
