package openbanking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"go.uber.org/zap"
)

// Service connects accounts to banks and syncs their transaction feeds.
type Service struct {
	store    store.LedgerStore
	registry *Registry
}

func NewService(ledgerStore store.LedgerStore, registry *Registry) *Service {
	return &Service{store: ledgerStore, registry: registry}
}

// Connect links a user to a bank: exchanges the (mock) authorization code,
// fetches the bank's account list and opens a local account per bank
// account, tagged with the connection and external ids.
func (s *Service) Connect(ctx context.Context, userId, providerId string) ([]models.Account, error) {
	provider, ok := s.registry.Get(providerId)
	if !ok {
		return nil, fmt.Errorf("unsupported banking provider: %s", providerId)
	}

	client := NewMockClient(provider)
	tokens, err := client.ExchangeCodeForTokens("mock_authorization_code")
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	bankAccounts, err := client.GetAccountInformation(tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("fetching account information: %w", err)
	}

	connectionId := tokens.AccessToken
	if len(connectionId) > 50 {
		connectionId = connectionId[:50]
	}

	var accounts []models.Account
	for _, bankAccount := range bankAccounts {
		account, err := s.store.OpenAccount(ctx, store.OpenAccountParams{
			UserId:            userId,
			AccountName:       fmt.Sprintf("%s - %s", provider.Name, bankAccount.Nickname),
			AccountType:       models.AccountTypeCurrent,
			Currency:          bankAccount.Currency,
			BankConnectionId:  connectionId,
			ExternalAccountId: bankAccount.AccountId,
		})
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	zap.L().Info("Bank connected",
		zap.String("provider", provider.Id),
		zap.String("user_id", userId),
		zap.Int("accounts", len(accounts)))
	return accounts, nil
}

// Sync imports the feed for one connected account. Feed transactions whose
// external id is already stored are skipped without error; success is
// measured by how many new transactions were imported.
func (s *Service) Sync(ctx context.Context, accountId, providerId string, lookback time.Duration) (int, error) {
	provider, ok := s.registry.Get(providerId)
	if !ok {
		return 0, fmt.Errorf("unsupported banking provider: %s", providerId)
	}

	account, err := s.store.GetAccount(ctx, accountId)
	if err != nil {
		return 0, err
	}
	if account.ExternalAccountId == "" {
		return 0, fmt.Errorf("account %s has no bank connection", accountId)
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.Add(-lookback).Truncate(24 * time.Hour)

	client := NewMockClient(provider)
	feed, err := client.GetTransactions(account.ExternalAccountId, from, to)
	if err != nil {
		return 0, fmt.Errorf("fetching transactions: %w", err)
	}

	imported := 0
	for _, feedTransaction := range feed {
		raw, _ := json.Marshal(feedTransaction)
		_, err := s.store.PostTransaction(ctx, store.PostTransactionParams{
			AccountId:   accountId,
			Date:        feedTransaction.BookingDate,
			Description: feedTransaction.Information,
			Amount:      feedTransaction.Amount,
			SourceType:  models.SourceOpenBanking,
			ExternalId:  feedTransaction.TransactionId,
			RawData:     string(raw),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateTransaction) {
				continue
			}
			return imported, err
		}
		imported++
	}

	zap.L().Info("Sync completed",
		zap.String("provider", provider.Id),
		zap.String("account_id", accountId),
		zap.Int("feed_size", len(feed)),
		zap.Int("imported", imported))
	return imported, nil
}
