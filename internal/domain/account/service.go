package account

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/transfer"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/shared/logging"
)

// Service contains the business logic for account aggregation
type Service struct {
	banks         bank.Repository
	transfers     transfer.Repository
	client        aggregator.ClientInterface
	fanoutTimeout time.Duration
}

// NewService creates a new account service. fanoutTimeout caps the total
// time spent fanning out to the aggregation vendor per request.
func NewService(banks bank.Repository, transfers transfer.Repository, client aggregator.ClientInterface, fanoutTimeout time.Duration) *Service {
	return &Service{
		banks:         banks,
		transfers:     transfers,
		client:        client,
		fanoutTimeout: fanoutTimeout,
	}
}

// ListAccounts returns a live snapshot of every account the user has
// linked, with the bank count and the summed current balance.
//
// Connections are fetched from the vendor in parallel; one failure fails
// the whole listing rather than returning a silently incomplete total.
// Results keep the stored connection order.
func (s *Service) ListAccounts(ctx context.Context, userID string) (*AccountList, error) {
	connections, err := s.banks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank connections: %w", err)
	}

	snapshots := make([]*Snapshot, len(connections))
	if len(connections) > 0 {
		fanCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(fanCtx)
		for i, conn := range connections {
			g.Go(func() error {
				snapshot, err := s.fetchSnapshot(gctx, conn)
				if err != nil {
					return err
				}
				snapshots[i] = snapshot
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// Balances come back as floats; sum them as decimals so the total
	// does not drift.
	total := decimal.Zero
	for _, snapshot := range snapshots {
		total = total.Add(decimal.NewFromFloat(snapshot.CurrentBalance))
	}

	return &AccountList{
		Data:                snapshots,
		TotalBanks:          len(snapshots),
		TotalCurrentBalance: total.InexactFloat64(),
	}, nil
}

// GetAccount returns one connection's snapshot with its full transaction
// history: vendor transactions merged with internal transfer records,
// newest first.
func (s *Service) GetAccount(ctx context.Context, connectionID string) (*Detail, error) {
	conn, err := s.banks.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.fetchDetail(ctx, conn)
}

// ListAccountsWithTransactions returns every connection's detail in the
// stored connection order. Used for statement exports that need all
// accounts at once.
func (s *Service) ListAccountsWithTransactions(ctx context.Context, userID string) ([]*Detail, error) {
	connections, err := s.banks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank connections: %w", err)
	}
	if len(connections) == 0 {
		return []*Detail{}, nil
	}

	fanCtx, cancel := context.WithTimeout(ctx, s.fanoutTimeout)
	defer cancel()

	details := make([]*Detail, len(connections))
	g, gctx := errgroup.WithContext(fanCtx)
	for i, conn := range connections {
		g.Go(func() error {
			detail, err := s.fetchDetail(gctx, conn)
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return details, nil
}

// fetchSnapshot fetches the vendor account for one connection.
func (s *Service) fetchSnapshot(ctx context.Context, conn *bank.Connection) (*Snapshot, error) {
	resp, err := s.client.GetAccounts(ctx, conn.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for connection %s: %w", conn.ID, err)
	}
	if len(resp.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts returned for connection %s", conn.ID)
	}

	// Each connection tracks one account. Match by the stored account id
	// in case the vendor returns siblings from the same institution.
	vendorAccount := resp.Accounts[0]
	for _, a := range resp.Accounts {
		if a.AccountID == conn.AccountID {
			vendorAccount = a
			break
		}
	}

	snapshot := &Snapshot{
		ID:            vendorAccount.AccountID,
		InstitutionID: resp.Item.InstitutionID,
		Name:          vendorAccount.Name,
		OfficialName:  vendorAccount.OfficialName,
		Mask:          vendorAccount.Mask,
		Type:          vendorAccount.Type,
		Subtype:       vendorAccount.Subtype,
		ConnectionID:  conn.ID,
		SharableID:    conn.SharableID,
	}
	if vendorAccount.Balances.Available != nil {
		snapshot.AvailableBalance = *vendorAccount.Balances.Available
	}
	if vendorAccount.Balances.Current != nil {
		snapshot.CurrentBalance = *vendorAccount.Balances.Current
	}
	return snapshot, nil
}

// fetchDetail fetches vendor account data, vendor transactions and
// internal transfer records for one connection, all in parallel.
func (s *Service) fetchDetail(ctx context.Context, conn *bank.Connection) (*Detail, error) {
	var (
		snapshot *Snapshot
		vendorTx []*Transaction
		records  []*transfer.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.fetchSnapshot(gctx, conn)
		return err
	})
	g.Go(func() error {
		resp, err := s.client.GetTransactions(gctx, conn.AccessToken)
		if err != nil {
			return fmt.Errorf("failed to fetch transactions for connection %s: %w", conn.ID, err)
		}
		vendorTx = make([]*Transaction, 0, len(resp.Transactions))
		for _, t := range resp.Transactions {
			mapped, err := mapVendorTransaction(t)
			if err != nil {
				return err
			}
			vendorTx = append(vendorTx, mapped)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.transfers.ListByBankID(gctx, conn.ID)
		if err != nil {
			return fmt.Errorf("failed to list transfer records for connection %s: %w", conn.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	transactions := append(vendorTx, mapTransferRecords(ctx, records, conn.ID)...)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return &Detail{Account: snapshot, Transactions: transactions}, nil
}

func mapVendorTransaction(t aggregator.Transaction) (*Transaction, error) {
	date, err := t.GetDate()
	if err != nil {
		return nil, err
	}
	mapped := &Transaction{
		ID:             t.TransactionID,
		Name:           t.Name,
		Amount:         t.Amount,
		Pending:        t.Pending,
		PaymentChannel: t.PaymentChannel,
		Type:           t.Type,
	}
	if date != nil {
		mapped.Date = *date
	}
	if len(t.Category) > 0 {
		mapped.Category = t.Category[0]
	}
	return mapped, nil
}

// mapTransferRecords converts internal transfer records into transactions
// from the given connection's point of view: outgoing transfers are
// debits, incoming ones credits.
func mapTransferRecords(ctx context.Context, records []*transfer.Record, connectionID string) []*Transaction {
	transactions := make([]*Transaction, 0, len(records))
	for _, r := range records {
		txType := TypeCredit
		if r.SenderBankID == connectionID {
			txType = TypeDebit
		}
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			// A record that fails to parse still shows up in the history;
			// zero amount, loudly.
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("record_id", r.ID).
				Str("amount", r.Amount).
				Msg("transfer record has malformed amount")
			amount = decimal.Zero
		}
		transactions = append(transactions, &Transaction{
			ID:             r.ID,
			Name:           r.Name,
			Amount:         amount.InexactFloat64(),
			Pending:        false,
			Date:           r.CreatedAt,
			PaymentChannel: r.Channel,
			Category:       r.Category,
			Type:           txType,
		})
	}
	return transactions
}
