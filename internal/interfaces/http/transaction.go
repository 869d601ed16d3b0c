package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/domain/transfer"
	"horizon/internal/shared/logging"
	"horizon/internal/shared/middleware"
)

// TransactionHandler serves transfer submission and transaction history.
type TransactionHandler struct {
	transfers *transfer.Service
	accounts  *account.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(transfers *transfer.Service, accounts *account.Service) *TransactionHandler {
	return &TransactionHandler{transfers: transfers, accounts: accounts}
}

// HandleCreateTransfer executes a peer-to-peer transfer for the
// authenticated user.
func (h *TransactionHandler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req transfer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.transfers.CreateTransfer(r.Context(), principal, req)
	if err != nil {
		var validationErr *transfer.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, transfer.ErrForbidden):
			writeError(w, http.StatusForbidden, "sender bank does not belong to you")
		case errors.Is(err, bank.ErrConnectionNotFound):
			writeError(w, http.StatusNotFound, "bank connection not found")
		default:
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("transfer failed")
			writeError(w, http.StatusInternalServerError, "transfer failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// HandleTransactionHistory returns one connection's merged transaction
// history, newest first.
func (h *TransactionHandler) HandleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	connectionID := r.URL.Query().Get("id")
	if connectionID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	detail, err := h.accounts.GetAccount(r.Context(), connectionID)
	if err != nil {
		if errors.Is(err, bank.ErrConnectionNotFound) {
			writeError(w, http.StatusNotFound, "bank connection not found")
			return
		}
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("connection_id", connectionID).Msg("failed to fetch history")
		writeError(w, http.StatusBadGateway, "failed to fetch transaction history")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
