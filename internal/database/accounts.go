package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OpenAccount creates an account and, when the opening balance is non-zero,
// the opening-balance transaction. Both rows persist atomically or not at
// all.
func (s *Service) OpenAccount(ctx context.Context, params store.OpenAccountParams) (*models.Account, error) {
	user, err := s.GetUserById(ctx, params.UserId)
	if err != nil {
		return nil, err
	}
	if _, ok := models.AccountTypes[params.AccountType]; !ok {
		return nil, fmt.Errorf("unknown account type: %s", params.AccountType)
	}
	currency := params.Currency
	if currency == "" {
		currency = "GBP"
	}
	if !isCurrencyCode(currency) {
		return nil, fmt.Errorf("currency must be a three-letter ISO 4217 code, got %q", currency)
	}

	zap.L().Info("Opening account",
		zap.String("user_id", user.Id),
		zap.String("account_name", params.AccountName),
		zap.String("account_type", string(params.AccountType)),
		zap.String("opening_balance", params.OpeningBalance.StringFixed(2)))

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	accountId := uuid.New().String()
	_, err = tx.ExecContext(ctx, queryInsertAccount,
		accountId, user.Id, params.AccountName, string(params.AccountType),
		params.OpeningBalance.StringFixed(2), params.OpeningBalance.StringFixed(2),
		currency, params.BankConnectionId, params.ExternalAccountId)
	if err != nil {
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	if !params.OpeningBalance.IsZero() {
		source, err := s.getOrCreateSource(ctx, tx, models.SourceOpeningBalance)
		if err != nil {
			return nil, err
		}
		_, err = s.insertTransaction(ctx, tx, insertTransactionParams{
			AccountId:   accountId,
			Date:        today(),
			Description: fmt.Sprintf("Opening balance for %s", params.AccountName),
			Amount:      params.OpeningBalance,
			SourceId:    source.Id,
			SourceType:  models.SourceOpeningBalance,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetAccount(ctx, accountId)
}

func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	return getAccount(ctx, s.db, accountId)
}

func getAccount(ctx context.Context, q querier, accountId string) (*models.Account, error) {
	var account models.Account
	var openingStr, currentStr string
	err := q.QueryRowContext(ctx, queryGetAccount, accountId).Scan(
		&account.Id, &account.UserId, &account.AccountName, &account.AccountType,
		&openingStr, &currentStr, &account.Currency, &account.Active,
		&account.BankConnectionId, &account.ExternalAccountId, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
		}
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	account.OpeningBalance, err = decimal.NewFromString(openingStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse opening balance %q: %w", openingStr, err)
	}
	account.CurrentBalance, err = decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse current balance %q: %w", currentStr, err)
	}
	return &account, nil
}

// isCurrencyCode reports whether code is three uppercase ASCII letters, the
// ISO 4217 shape. Codes are not checked against the registered list.
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// GetAccounts returns active accounts only; deactivated accounts stay in the
// table but are excluded here.
func (s *Service) GetAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryGetActiveAccounts)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var openingStr, currentStr string
		err := rows.Scan(
			&account.Id, &account.UserId, &account.AccountName, &account.AccountType,
			&openingStr, &currentStr, &account.Currency, &account.Active,
			&account.BankConnectionId, &account.ExternalAccountId, &account.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		account.OpeningBalance, err = decimal.NewFromString(openingStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse opening balance %q: %w", openingStr, err)
		}
		account.CurrentBalance, err = decimal.NewFromString(currentStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse current balance %q: %w", currentStr, err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// DeactivateAccount flips the active flag. Accounts with transactions in the
// last 30 days are refused; nothing is ever hard-deleted.
func (s *Service) DeactivateAccount(ctx context.Context, accountId string) error {
	if _, err := s.GetAccount(ctx, accountId); err != nil {
		return err
	}

	cutoff := today().AddDate(0, 0, -30).Format(dateFormat)
	var recent int
	err := s.db.QueryRowContext(ctx, queryCountRecentTransactions, accountId, cutoff).Scan(&recent)
	if err != nil {
		return fmt.Errorf("unable to count recent transactions: %w", err)
	}
	if recent > 0 {
		return fmt.Errorf("%w: %d in the last 30 days", store.ErrAccountHasRecentActivity, recent)
	}

	if _, err := s.db.ExecContext(ctx, querySetAccountActive, false, accountId); err != nil {
		return fmt.Errorf("unable to deactivate account: %w", err)
	}
	zap.L().Info("Account deactivated", zap.String("account_id", accountId))
	return nil
}

func (s *Service) ReactivateAccount(ctx context.Context, accountId string) error {
	if _, err := s.GetAccount(ctx, accountId); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, querySetAccountActive, true, accountId); err != nil {
		return fmt.Errorf("unable to reactivate account: %w", err)
	}
	zap.L().Info("Account reactivated", zap.String("account_id", accountId))
	return nil
}

// ComputeLiveBalance derives the authoritative balance: opening balance plus
// the sum of every linked transaction amount. The stored current_balance is
// only a cache and is never consulted here.
func (s *Service) ComputeLiveBalance(ctx context.Context, accountId string) (decimal.Decimal, error) {
	return computeLiveBalance(ctx, s.db, accountId)
}

func computeLiveBalance(ctx context.Context, q querier, accountId string) (decimal.Decimal, error) {
	account, err := getAccount(ctx, q, accountId)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := q.QueryContext(ctx, queryGetTransactionAmounts, accountId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to query transaction amounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	// Summed in Go with decimal arithmetic so the result is cent-exact
	// regardless of sqlite numeric affinity.
	total := account.OpeningBalance
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return decimal.Zero, fmt.Errorf("unable to scan amount: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unable to parse amount %q: %w", amountStr, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating amount rows: %w", err)
	}
	return total, nil
}

// RefreshBalance recomputes the live balance and writes it into the cached
// current_balance column.
func (s *Service) RefreshBalance(ctx context.Context, accountId string) (decimal.Decimal, error) {
	balance, err := s.ComputeLiveBalance(ctx, accountId)
	if err != nil {
		return decimal.Zero, err
	}
	_, err = s.db.ExecContext(ctx, queryUpdateCachedBalance, balance.StringFixed(2), accountId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to update cached balance: %w", err)
	}
	return balance, nil
}

// refreshBalanceTx recomputes and caches the balance inside a unit of work.
func refreshBalanceTx(ctx context.Context, tx querier, accountId string) (decimal.Decimal, error) {
	balance, err := computeLiveBalance(ctx, tx, accountId)
	if err != nil {
		return decimal.Zero, err
	}
	_, err = tx.ExecContext(ctx, queryUpdateCachedBalance, balance.StringFixed(2), accountId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to update cached balance: %w", err)
	}
	return balance, nil
}
