package user

import (
	"context"
	"errors"
	"testing"
)

// MockIdentityClient is a mock implementation of IdentityClient
type MockIdentityClient struct {
	GetAccountFunc func(ctx context.Context, sessionToken string) (*Principal, error)
}

func (m *MockIdentityClient) GetAccount(ctx context.Context, sessionToken string) (*Principal, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, sessionToken)
	}
	return nil, nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		mock   func() *MockIdentityClient
		want   bool
		wantID string
	}{
		{
			name:  "valid session",
			token: "secret-1",
			mock: func() *MockIdentityClient {
				return &MockIdentityClient{
					GetAccountFunc: func(ctx context.Context, sessionToken string) (*Principal, error) {
						if sessionToken != "secret-1" {
							t.Errorf("expected token 'secret-1', got %q", sessionToken)
						}
						return &Principal{ID: "user-1", Email: "test@example.com"}, nil
					},
				}
			},
			want:   true,
			wantID: "user-1",
		},
		{
			name:  "empty token never hits the vendor",
			token: "",
			mock: func() *MockIdentityClient {
				return &MockIdentityClient{
					GetAccountFunc: func(ctx context.Context, sessionToken string) (*Principal, error) {
						t.Error("vendor must not be called for empty tokens")
						return nil, nil
					},
				}
			},
			want: false,
		},
		{
			name:  "vendor rejection yields absent principal",
			token: "revoked",
			mock: func() *MockIdentityClient {
				return &MockIdentityClient{
					GetAccountFunc: func(ctx context.Context, sessionToken string) (*Principal, error) {
						return nil, errors.New("session expired")
					},
				}
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(tt.mock())

			principal := resolver.Resolve(context.Background(), tt.token)

			if (principal != nil) != tt.want {
				t.Fatalf("Resolve() = %v, want present=%v", principal, tt.want)
			}
			if principal != nil && principal.ID != tt.wantID {
				t.Errorf("expected principal %q, got %q", tt.wantID, principal.ID)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		want      string
	}{
		{"both names", Principal{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first only", Principal{FirstName: "Ada"}, "Ada"},
		{"last only", Principal{LastName: "Lovelace"}, "Lovelace"},
		{"neither", Principal{}, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
