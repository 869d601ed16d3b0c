package http

import (
	"errors"
	"net/http"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/shared/logging"
)

// AccountHandler serves aggregated account data.
type AccountHandler struct {
	accounts *account.Service
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// HandleListAccounts returns every linked account for the given user with
// the bank count and total balance.
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	list, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to list accounts")
		writeError(w, http.StatusBadGateway, "failed to fetch accounts")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleGetAccount returns one connection's account with its merged
// transaction history.
func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	connectionID := r.PathValue("id")
	if connectionID == "" {
		writeError(w, http.StatusBadRequest, "connection id is required")
		return
	}

	detail, err := h.accounts.GetAccount(r.Context(), connectionID)
	if err != nil {
		if errors.Is(err, bank.ErrConnectionNotFound) {
			writeError(w, http.StatusNotFound, "bank connection not found")
			return
		}
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("connection_id", connectionID).Msg("failed to fetch account")
		writeError(w, http.StatusBadGateway, "failed to fetch account")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
