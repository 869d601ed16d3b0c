package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/payments"
	"horizon/internal/shared/logging"
)

// Service executes peer-to-peer transfers: validate, resolve both bank
// connections, move funds through the payment rail, record the transfer.
type Service struct {
	banks    bank.Repository
	records  Repository
	payments payments.ClientInterface
}

func NewService(banks bank.Repository, records Repository, paymentsClient payments.ClientInterface) *Service {
	return &Service{
		banks:    banks,
		records:  records,
		payments: paymentsClient,
	}
}

// CreateTransfer processes one transfer request for the given principal.
// Validation failures return *ValidationError before any vendor call.
func (s *Service) CreateTransfer(ctx context.Context, principal *user.Principal, req Request) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	receiverAccountID, err := bank.DecodeSharableID(req.SharableID)
	if err != nil {
		return nil, &ValidationError{Field: "sharableId", Message: "is not a valid sharable id"}
	}

	// Resolve both connections concurrently
	var senderBank, receiverBank *bank.Connection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receiverBank, err = s.banks.GetByAccountID(gctx, receiverAccountID)
		if err != nil {
			return fmt.Errorf("failed to resolve receiver bank: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		senderBank, err = s.banks.GetByID(gctx, req.SenderBank)
		if err != nil {
			return fmt.Errorf("failed to resolve sender bank: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// A user can only send from a connection they own
	if senderBank.UserID != principal.ID {
		return nil, ErrForbidden
	}

	amount := req.NormalizedAmount()

	transferResult, err := s.payments.CreateTransfer(ctx, payments.TransferParams{
		SourceFundingURL:      senderBank.FundingSourceURL,
		DestinationFundingURL: receiverBank.FundingSourceURL,
		Amount:                amount,
		IdempotencyKey:        uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute transfer: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Info().
		Str("transfer_id", transferResult.ID).
		Str("sender_bank", senderBank.ID).
		Str("receiver_bank", receiverBank.ID).
		Str("amount", amount).
		Msg("transfer executed")

	record, err := s.records.Create(ctx, CreateRecordParams{
		Name:           req.Name,
		Amount:         amount,
		Email:          req.Email,
		SenderID:       senderBank.UserID,
		SenderBankID:   senderBank.ID,
		ReceiverID:     receiverBank.UserID,
		ReceiverBankID: receiverBank.ID,
	})
	if err != nil {
		// Funds already moved; surface the bookkeeping failure instead of
		// pretending the transfer did not happen.
		return nil, fmt.Errorf("transfer executed but recording failed: %w", err)
	}

	return record, nil
}
