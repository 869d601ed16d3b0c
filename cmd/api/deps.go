package main

import (
	"horizon/internal/domain/account"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/appbase"
	"horizon/internal/infrastructure/payments"
	"horizon/internal/infrastructure/pdfexport"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	ReportHandler      *httphandlers.ReportHandler

	// Session resolution for the auth middleware
	PrincipalResolver *user.Resolver
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Vendor clients
	appbaseClient := appbase.NewClient(cfg.Appbase.Endpoint, cfg.Appbase.ProjectID, cfg.Appbase.APIKey)
	aggregatorClient := aggregator.NewClient(cfg.Aggregator.BaseURL, cfg.Aggregator.ClientID, cfg.Aggregator.Secret, cfg.Aggregator.MaxRetries)
	paymentsClient := payments.NewClient(cfg.Payments.BaseURL, cfg.Payments.APIKey)

	// Document-database repositories
	bankRepo := appbase.NewBankRepository(appbaseClient, cfg.Appbase.DatabaseID, cfg.Appbase.BankCollection)
	transferRepo := appbase.NewTransferRepository(appbaseClient, cfg.Appbase.DatabaseID, cfg.Appbase.TransactionCollection)

	// Domain services
	resolver := user.NewResolver(appbaseClient)
	accountService := account.NewService(bankRepo, transferRepo, aggregatorClient, cfg.Aggregator.FanoutTimeout)
	transferService := transfer.NewService(bankRepo, transferRepo, paymentsClient)

	exporter, err := pdfexport.NewExporter(pdfexport.Config{
		ChromePath:    cfg.PDF.ChromePath,
		LoadTimeout:   cfg.PDF.LoadTimeout,
		RenderTimeout: cfg.PDF.RenderTimeout,
		MaxConcurrent: cfg.PDF.MaxConcurrent,
	})
	if err != nil {
		return nil, err
	}

	// Handlers
	authHandler := httphandlers.NewAuthHandler(appbaseClient, cfg.Session.CookieName, cfg.Session.MaxAge, cfg.TLS.Enabled)
	accountHandler := httphandlers.NewAccountHandler(accountService)
	transactionHandler := httphandlers.NewTransactionHandler(transferService, accountService)
	reportHandler := httphandlers.NewReportHandler(accountService, exporter)

	return &Dependencies{
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		ReportHandler:      reportHandler,
		PrincipalResolver:  resolver,
	}, nil
}
