package appbase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"horizon/internal/domain/bank"
)

func TestBankRepository_ListByUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/databases/db-1/collections/banks/documents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		queries := r.URL.Query()["queries[]"]
		if len(queries) != 2 {
			t.Fatalf("expected 2 queries, got %d", len(queries))
		}
		var first Query
		if err := json.Unmarshal([]byte(queries[0]), &first); err != nil {
			t.Fatalf("failed to decode query: %v", err)
		}
		if first.Method != "equal" || first.Attribute != "userId" {
			t.Errorf("unexpected first query %+v", first)
		}
		var second Query
		if err := json.Unmarshal([]byte(queries[1]), &second); err != nil {
			t.Fatalf("failed to decode query: %v", err)
		}
		if second.Method != "orderAsc" || second.Attribute != "$createdAt" {
			t.Errorf("unexpected second query %+v", second)
		}

		w.Write([]byte(`{
			"total": 2,
			"documents": [
				{"$id": "bank-1", "userId": "user-1", "accountId": "acc-1", "accessToken": "tok-1", "fundingSourceUrl": "https://rail/src-1", "sharableId": "YWNjLTE="},
				{"$id": "bank-2", "userId": "user-1", "accountId": "acc-2", "accessToken": "tok-2", "fundingSourceUrl": "https://rail/src-2", "sharableId": "YWNjLTI="}
			]
		}`))
	}))
	defer server.Close()

	repo := NewBankRepository(NewClient(server.URL, "proj", "key"), "db-1", "banks")

	connections, err := repo.ListByUserID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(connections) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(connections))
	}
	if connections[0].ID != "bank-1" || connections[1].ID != "bank-2" {
		t.Errorf("unexpected order: [%s %s]", connections[0].ID, connections[1].ID)
	}
	if connections[0].AccessToken != "tok-1" {
		t.Errorf("expected access token 'tok-1', got %q", connections[0].AccessToken)
	}
}

func TestBankRepository_GetByID_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":404,"type":"document_not_found","message":"not found"}`))
	}))
	defer server.Close()

	repo := NewBankRepository(NewClient(server.URL, "proj", "key"), "db-1", "banks")

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, bank.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}

func TestBankRepository_GetByAccountID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"total": 1,
			"documents": [
				{"$id": "bank-1", "userId": "user-1", "accountId": "acc-1"}
			]
		}`))
	}))
	defer server.Close()

	repo := NewBankRepository(NewClient(server.URL, "proj", "key"), "db-1", "banks")

	conn, err := repo.GetByAccountID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.ID != "bank-1" {
		t.Errorf("expected connection 'bank-1', got %q", conn.ID)
	}
}

func TestBankRepository_GetByAccountID_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0, "documents": []}`))
	}))
	defer server.Close()

	repo := NewBankRepository(NewClient(server.URL, "proj", "key"), "db-1", "banks")

	_, err := repo.GetByAccountID(context.Background(), "acc-unknown")
	if !errors.Is(err, bank.ErrConnectionNotFound) {
		t.Fatalf("expected ErrConnectionNotFound, got %v", err)
	}
}
