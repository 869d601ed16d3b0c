package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"horizon/internal/domain/account"
	"horizon/internal/domain/report"
	"horizon/internal/infrastructure/pdfexport"
	"horizon/internal/shared/logging"
	"horizon/internal/shared/middleware"
)

// StatementExporter renders statement HTML into PDF bytes.
type StatementExporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

var _ StatementExporter = (*pdfexport.Exporter)(nil)

// ReportHandler produces the downloadable PDF bank statement.
type ReportHandler struct {
	accounts *account.Service
	exporter StatementExporter
	now      func() time.Time
}

// NewReportHandler creates a new report handler.
func NewReportHandler(accounts *account.Service, exporter StatementExporter) *ReportHandler {
	return &ReportHandler{
		accounts: accounts,
		exporter: exporter,
		now:      time.Now,
	}
}

// HandleTransactionsPDF aggregates every account of the authenticated
// user, renders the statement and streams it back as a PDF attachment.
func (h *ReportHandler) HandleTransactionsPDF(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	details, err := h.accounts.ListAccountsWithTransactions(r.Context(), principal.ID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", principal.ID).Msg("failed to aggregate accounts for statement")
		writeError(w, http.StatusBadGateway, "failed to fetch account data")
		return
	}

	html, err := report.Render(&report.Statement{
		CustomerName: principal.DisplayName(),
		DownloadedAt: h.now(),
		Accounts:     details,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to render statement")
		writeError(w, http.StatusInternalServerError, "failed to render statement")
		return
	}

	pdf, err := h.exporter.Export(r.Context(), html)
	if err != nil {
		logger.Error().Err(err).Msg("failed to export statement pdf")
		switch {
		case errors.Is(err, pdfexport.ErrBrowserLaunch):
			writeError(w, http.StatusInternalServerError, "failed to launch pdf renderer")
		case errors.Is(err, pdfexport.ErrContentLoad):
			writeError(w, http.StatusInternalServerError, "timed out loading statement content")
		case errors.Is(err, pdfexport.ErrRender):
			writeError(w, http.StatusInternalServerError, "failed to generate pdf")
		default:
			writeError(w, http.StatusInternalServerError, "failed to export statement")
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=Bank-Statement.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}
