package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/payments"
	"horizon/internal/shared/middleware"
)

func transferTestBanks() *MockBankRepository {
	return &MockBankRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*bank.Connection, error) {
			if id == "sender-bank" {
				return &bank.Connection{
					ID:               "sender-bank",
					UserID:           "user-1",
					AccountID:        "acc-sender",
					FundingSourceURL: "https://rail.example.com/funding-sources/src",
				}, nil
			}
			return nil, bank.ErrConnectionNotFound
		},
		GetByAccountIDFunc: func(ctx context.Context, accountID string) (*bank.Connection, error) {
			if accountID == "acc-receiver" {
				return &bank.Connection{
					ID:               "receiver-bank",
					UserID:           "user-2",
					AccountID:        "acc-receiver",
					FundingSourceURL: "https://rail.example.com/funding-sources/dst",
				}, nil
			}
			return nil, bank.ErrConnectionNotFound
		},
	}
}

func newTransactionHandler(banks *MockBankRepository, records *MockTransferRepository, rail *MockPaymentsClient) *TransactionHandler {
	transfers := transfer.NewService(banks, records, rail)
	accounts := newAccountService(banks, records, &MockAggregatorClient{})
	return NewTransactionHandler(transfers, accounts)
}

func authenticatedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	principal := &user.Principal{ID: "user-1", FirstName: "Jane", Email: "jane@example.com"}
	return req.WithContext(context.WithValue(req.Context(), middleware.PrincipalKey, principal))
}

func transferBody(t *testing.T, senderBank string) string {
	t.Helper()
	body, err := json.Marshal(transfer.Request{
		Email:      "friend@example.com",
		Name:       "Rent split",
		Amount:     "120.5",
		SenderBank: senderBank,
		SharableID: bank.EncodeSharableID("acc-receiver"),
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return string(body)
}

func TestHandleCreateTransfer_Success(t *testing.T) {
	records := &MockTransferRepository{
		CreateFunc: func(ctx context.Context, params transfer.CreateRecordParams) (*transfer.Record, error) {
			return &transfer.Record{
				ID:             "record-1",
				Name:           params.Name,
				Amount:         params.Amount,
				SenderBankID:   params.SenderBankID,
				ReceiverBankID: params.ReceiverBankID,
				Channel:        transfer.DefaultChannel,
				Category:       transfer.DefaultCategory,
				CreatedAt:      time.Now(),
			}, nil
		},
	}
	handler := newTransactionHandler(transferTestBanks(), records, &MockPaymentsClient{})

	req := authenticatedRequest(http.MethodPost, "/api/transfers", transferBody(t, "sender-bank"))
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var record transfer.Record
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if record.Amount != "120.50" {
		t.Errorf("expected normalized amount '120.50', got %q", record.Amount)
	}
	if record.SenderBankID != "sender-bank" || record.ReceiverBankID != "receiver-bank" {
		t.Errorf("unexpected record %+v", record)
	}
}

func TestHandleCreateTransfer_Unauthenticated(t *testing.T) {
	handler := newTransactionHandler(transferTestBanks(), &MockTransferRepository{}, &MockPaymentsClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(transferBody(t, "sender-bank")))
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestHandleCreateTransfer_ValidationError(t *testing.T) {
	handler := newTransactionHandler(transferTestBanks(), &MockTransferRepository{}, &MockPaymentsClient{})

	body := `{"email":"friend@example.com","name":"Rent","amount":"-5","senderBank":"sender-bank","sharableId":"` + bank.EncodeSharableID("acc-receiver") + `"}`
	req := authenticatedRequest(http.MethodPost, "/api/transfers", body)
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "amount") {
		t.Errorf("expected amount validation message, got %q", resp.Error)
	}
}

func TestHandleCreateTransfer_ForbiddenSenderBank(t *testing.T) {
	banks := transferTestBanks()
	banks.GetByIDFunc = func(ctx context.Context, id string) (*bank.Connection, error) {
		return &bank.Connection{ID: id, UserID: "user-9"}, nil
	}
	handler := newTransactionHandler(banks, &MockTransferRepository{}, &MockPaymentsClient{})

	req := authenticatedRequest(http.MethodPost, "/api/transfers", transferBody(t, "sender-bank"))
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestHandleCreateTransfer_ReceiverNotFound(t *testing.T) {
	banks := transferTestBanks()
	banks.GetByAccountIDFunc = func(ctx context.Context, accountID string) (*bank.Connection, error) {
		return nil, bank.ErrConnectionNotFound
	}
	handler := newTransactionHandler(banks, &MockTransferRepository{}, &MockPaymentsClient{})

	req := authenticatedRequest(http.MethodPost, "/api/transfers", transferBody(t, "sender-bank"))
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleCreateTransfer_RailFailure(t *testing.T) {
	rail := &MockPaymentsClient{
		CreateTransferFunc: func(ctx context.Context, params payments.TransferParams) (*payments.Transfer, error) {
			return nil, errors.New("rail rejected the transfer")
		},
	}
	handler := newTransactionHandler(transferTestBanks(), &MockTransferRepository{}, rail)

	req := authenticatedRequest(http.MethodPost, "/api/transfers", transferBody(t, "sender-bank"))
	rec := httptest.NewRecorder()

	handler.HandleCreateTransfer(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestHandleTransactionHistory_MissingID(t *testing.T) {
	handler := newTransactionHandler(transferTestBanks(), &MockTransferRepository{}, &MockPaymentsClient{})

	req := authenticatedRequest(http.MethodGet, "/api/transaction-history", "")
	rec := httptest.NewRecorder()

	handler.HandleTransactionHistory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "id is required" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestHandleTransactionHistory_UnknownConnection(t *testing.T) {
	handler := newTransactionHandler(transferTestBanks(), &MockTransferRepository{}, &MockPaymentsClient{})

	req := authenticatedRequest(http.MethodGet, "/api/transaction-history?id=missing", "")
	rec := httptest.NewRecorder()

	handler.HandleTransactionHistory(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
