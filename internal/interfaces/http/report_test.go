package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon/internal/domain/bank"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/pdfexport"
)

type MockStatementExporter struct {
	ExportFunc func(ctx context.Context, html string) ([]byte, error)
}

func (m *MockStatementExporter) Export(ctx context.Context, html string) ([]byte, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, html)
	}
	return []byte("%PDF-1.4"), nil
}

func statementTestBanks() *MockBankRepository {
	return &MockBankRepository{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.Connection, error) {
			return []*bank.Connection{
				{ID: "bank-1", UserID: userID, AccountID: "acc-1", AccessToken: "tok-1"},
			}, nil
		},
	}
}

func statementTestAggregator() *MockAggregatorClient {
	return &MockAggregatorClient{
		GetAccountsFunc: func(ctx context.Context, accessToken string) (*aggregator.AccountsResponse, error) {
			return &aggregator.AccountsResponse{
				Accounts: []aggregator.Account{
					{AccountID: "acc-1", Name: "Checking", Balances: aggregator.Balances{Current: floatPtr(42)}},
				},
			}, nil
		},
		GetTransactionsFunc: func(ctx context.Context, accessToken string) (*aggregator.TransactionsResponse, error) {
			return &aggregator.TransactionsResponse{
				Transactions: []aggregator.Transaction{
					{TransactionID: "txn-1", AccountID: "acc-1", Name: "Coffee", Amount: 4.5, Date: "2026-08-20"},
				},
			}, nil
		},
	}
}

func TestHandleTransactionsPDF_Success(t *testing.T) {
	want := []byte("%PDF-1.4 statement bytes")
	var gotHTML string
	exporter := &MockStatementExporter{
		ExportFunc: func(ctx context.Context, html string) ([]byte, error) {
			gotHTML = html
			return want, nil
		},
	}
	accounts := newAccountService(statementTestBanks(), &MockTransferRepository{}, statementTestAggregator())
	handler := NewReportHandler(accounts, exporter)

	req := authenticatedRequest(http.MethodGet, "/api/transactions-pdf", "")
	rec := httptest.NewRecorder()

	handler.HandleTransactionsPDF(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=Bank-Statement.pdf" {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if got := rec.Body.Bytes(); string(got) != string(want) {
		t.Errorf("expected pdf bytes %q, got %q", want, got)
	}
	if !strings.Contains(gotHTML, "Checking") || !strings.Contains(gotHTML, "Jane") {
		t.Errorf("expected rendered statement with account and customer name, got %q", gotHTML)
	}
}

func TestHandleTransactionsPDF_ExportFailures(t *testing.T) {
	tests := []struct {
		name      string
		exportErr error
		wantBody  string
	}{
		{
			name:      "browser launch failure",
			exportErr: pdfexport.ErrBrowserLaunch,
			wantBody:  "failed to launch pdf renderer",
		},
		{
			name:      "content load timeout",
			exportErr: pdfexport.ErrContentLoad,
			wantBody:  "timed out loading statement content",
		},
		{
			name:      "render failure",
			exportErr: pdfexport.ErrRender,
			wantBody:  "failed to generate pdf",
		},
		{
			name:      "unclassified failure",
			exportErr: errors.New("browser crashed"),
			wantBody:  "failed to export statement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &MockStatementExporter{
				ExportFunc: func(ctx context.Context, html string) ([]byte, error) {
					return nil, tt.exportErr
				},
			}
			accounts := newAccountService(statementTestBanks(), &MockTransferRepository{}, statementTestAggregator())
			handler := NewReportHandler(accounts, exporter)

			req := authenticatedRequest(http.MethodGet, "/api/transactions-pdf", "")
			rec := httptest.NewRecorder()

			handler.HandleTransactionsPDF(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error != tt.wantBody {
				t.Errorf("expected error %q, got %q", tt.wantBody, resp.Error)
			}
		})
	}
}

func TestHandleTransactionsPDF_Unauthenticated(t *testing.T) {
	accounts := newAccountService(&MockBankRepository{}, &MockTransferRepository{}, &MockAggregatorClient{})
	handler := NewReportHandler(accounts, &MockStatementExporter{})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions-pdf", nil)
	rec := httptest.NewRecorder()

	handler.HandleTransactionsPDF(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestHandleTransactionsPDF_AggregationFailure(t *testing.T) {
	banks := &MockBankRepository{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*bank.Connection, error) {
			return nil, errors.New("document database unavailable")
		},
	}
	exporter := &MockStatementExporter{
		ExportFunc: func(ctx context.Context, html string) ([]byte, error) {
			t.Fatal("exporter should not run when aggregation fails")
			return nil, nil
		},
	}
	accounts := newAccountService(banks, &MockTransferRepository{}, &MockAggregatorClient{})
	handler := NewReportHandler(accounts, exporter)

	req := authenticatedRequest(http.MethodGet, "/api/transactions-pdf", "")
	rec := httptest.NewRecorder()

	handler.HandleTransactionsPDF(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "failed to fetch account data" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}
