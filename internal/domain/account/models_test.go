package account

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTransactionIsDebit(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{
			name: "debit type with positive amount",
			tx:   Transaction{Type: TypeDebit, Amount: 10},
			want: true,
		},
		{
			name: "credit type with positive amount",
			tx:   Transaction{Type: TypeCredit, Amount: 10},
			want: false,
		},
		{
			name: "credit type with negative amount",
			tx:   Transaction{Type: TypeCredit, Amount: -10},
			want: true,
		},
		{
			name: "missing type with negative amount",
			tx:   Transaction{Amount: -0.01},
			want: true,
		},
		{
			name: "missing type with zero amount",
			tx:   Transaction{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.IsDebit(); got != tt.want {
				t.Errorf("IsDebit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionMarshalJSON_IncludesDebit(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "credit with negative amount classified as debit",
			tx:   Transaction{ID: "txn-1", Type: TypeCredit, Amount: -10},
			want: `"debit":true`,
		},
		{
			name: "credit with positive amount",
			tx:   Transaction{ID: "txn-2", Type: TypeCredit, Amount: 10},
			want: `"debit":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(&tt.tx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("expected %s in %s", tt.want, data)
			}
			if !strings.Contains(string(data), `"id":"`+tt.tx.ID+`"`) {
				t.Errorf("expected id field preserved in %s", data)
			}
		})
	}
}
