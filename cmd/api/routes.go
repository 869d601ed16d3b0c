package main

import (
	"net/http"

	"github.com/rs/zerolog"

	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/sign-up", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("POST /api/auth/sign-in", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("POST /api/auth/sign-out", deps.AuthHandler.HandleSignOut)

	// Protected routes
	session := middleware.Session(cfg.Session.CookieName, deps.PrincipalResolver)

	mux.Handle("GET /api/users/me", session(http.HandlerFunc(deps.AuthHandler.HandleMe)))
	mux.Handle("GET /api/accounts", session(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("GET /api/accounts/{id}", session(http.HandlerFunc(deps.AccountHandler.HandleGetAccount)))
	mux.Handle("POST /api/transfers", session(http.HandlerFunc(deps.TransactionHandler.HandleCreateTransfer)))
	mux.Handle("GET /api/transaction-history", session(http.HandlerFunc(deps.TransactionHandler.HandleTransactionHistory)))
	mux.Handle("GET /api/transactions-pdf", session(http.HandlerFunc(deps.ReportHandler.HandleTransactionsPDF)))

	// Apply global middleware
	var handler http.Handler = mux
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}
	handler = middleware.Logging(logger)(middleware.CORS(cfg.Server.AllowedHosts)(handler))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		logger.Info().Msg("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
