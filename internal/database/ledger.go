package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// overdraftAllowance is how far below zero a current account may go on a
// transfer. All other account types get no allowance.
var overdraftAllowance = decimal.NewFromInt(100)

type insertTransactionParams struct {
	AccountId   string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	SourceId    string
	SourceType  models.SourceType
	ExternalId  string
	CategoryId  string
	RawData     string
}

// insertTransaction writes one posting inside an open unit of work.
func (s *Service) insertTransaction(ctx context.Context, tx querier, params insertTransactionParams) (*models.Transaction, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := tx.ExecContext(ctx, queryInsertTransaction,
		id, params.ExternalId, params.Date.Format(dateFormat), params.Description,
		params.Amount.StringFixed(2), params.CategoryId, params.SourceId,
		string(params.SourceType), params.RawData, params.AccountId, now, now)
	if err != nil {
		return nil, fmt.Errorf("unable to insert transaction: %w", err)
	}

	return &models.Transaction{
		Id:          id,
		ExternalId:  params.ExternalId,
		Date:        params.Date,
		Description: params.Description,
		Amount:      params.Amount,
		CategoryId:  params.CategoryId,
		SourceId:    params.SourceId,
		SourceType:  params.SourceType,
		RawData:     params.RawData,
		AccountId:   params.AccountId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// checkDuplicate returns ErrDuplicateTransaction when a non-empty external
// id already exists. The partial UNIQUE index on external_id backstops this
// lookup.
func checkDuplicate(ctx context.Context, q querier, externalId string) error {
	if externalId == "" {
		return nil
	}
	var existingId string
	err := q.QueryRowContext(ctx, queryCheckDuplicateTransaction, externalId).Scan(&existingId)
	if err == nil {
		return fmt.Errorf("%w: external id %s already exists", store.ErrDuplicateTransaction, externalId)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("unable to check for duplicate transaction: %w", err)
	}
	return nil
}

// PostTransaction records a single posting and refreshes the owning
// account's cached balance in one unit of work.
func (s *Service) PostTransaction(ctx context.Context, params store.PostTransactionParams) (*models.Transaction, error) {
	if _, err := s.GetAccount(ctx, params.AccountId); err != nil {
		return nil, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := checkDuplicate(ctx, tx, params.ExternalId); err != nil {
		return nil, err
	}

	source, err := s.getOrCreateSource(ctx, tx, params.SourceType)
	if err != nil {
		return nil, err
	}

	transaction, err := s.insertTransaction(ctx, tx, insertTransactionParams{
		AccountId:   params.AccountId,
		Date:        params.Date,
		Description: params.Description,
		Amount:      params.Amount,
		SourceId:    source.Id,
		SourceType:  params.SourceType,
		ExternalId:  params.ExternalId,
		CategoryId:  params.CategoryId,
		RawData:     params.RawData,
	})
	if err != nil {
		return nil, err
	}

	if _, err := refreshBalanceTx(ctx, tx, params.AccountId); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Transaction posted",
		zap.String("transaction_id", transaction.Id),
		zap.String("account_id", params.AccountId),
		zap.String("source_type", string(params.SourceType)),
		zap.String("amount", params.Amount.StringFixed(2)))
	return transaction, nil
}

// Transfer moves amount between two accounts as a paired debit/credit
// posting. The overdraft check always runs against the live balance, never
// the cached column.
func (s *Service) Transfer(ctx context.Context, fromId, toId string, amount decimal.Decimal, description string) (*models.Transaction, *models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive, got %s", store.ErrInvalidTransfer, amount.StringFixed(2))
	}
	if fromId == toId {
		return nil, nil, fmt.Errorf("%w: cannot transfer to the same account", store.ErrInvalidTransfer)
	}

	fromAccount, err := s.GetAccount(ctx, fromId)
	if err != nil {
		return nil, nil, err
	}
	toAccount, err := s.GetAccount(ctx, toId)
	if err != nil {
		return nil, nil, err
	}

	liveBalance, err := s.ComputeLiveBalance(ctx, fromId)
	if err != nil {
		return nil, nil, err
	}

	allowance := decimal.Zero
	if fromAccount.AccountType == models.AccountTypeCurrent {
		allowance = overdraftAllowance
	}
	if liveBalance.Add(allowance).LessThan(amount) {
		return nil, nil, fmt.Errorf("%w: available %s, requested %s",
			store.ErrInsufficientFunds, liveBalance.Add(allowance).StringFixed(2), amount.StringFixed(2))
	}

	if description == "" {
		description = "Internal transfer"
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	source, err := s.getOrCreateSource(ctx, tx, models.SourceTransfer)
	if err != nil {
		return nil, nil, err
	}

	date := today()
	debit, err := s.insertTransaction(ctx, tx, insertTransactionParams{
		AccountId:   fromId,
		Date:        date,
		Description: fmt.Sprintf("Transfer to %s: %s", toAccount.AccountName, description),
		Amount:      amount.Neg(),
		SourceId:    source.Id,
		SourceType:  models.SourceTransfer,
	})
	if err != nil {
		return nil, nil, err
	}

	credit, err := s.insertTransaction(ctx, tx, insertTransactionParams{
		AccountId:   toId,
		Date:        date,
		Description: fmt.Sprintf("Transfer from %s: %s", fromAccount.AccountName, description),
		Amount:      amount,
		SourceId:    source.Id,
		SourceType:  models.SourceTransfer,
	})
	if err != nil {
		return nil, nil, err
	}

	if _, err := refreshBalanceTx(ctx, tx, fromId); err != nil {
		return nil, nil, err
	}
	if _, err := refreshBalanceTx(ctx, tx, toId); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Transfer completed",
		zap.String("from_account", fromId),
		zap.String("to_account", toId),
		zap.String("amount", amount.StringFixed(2)))
	return debit, credit, nil
}

// AdjustOpeningBalance records the signed difference between the stored and
// the new opening balance as an adjustment posting, then updates the
// account. Returns (nil, nil) when the value is unchanged. This is the only
// sanctioned way to correct an account total without editing history.
func (s *Service) AdjustOpeningBalance(ctx context.Context, accountId string, newOpeningBalance decimal.Decimal) (*models.Transaction, error) {
	account, err := s.GetAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}

	difference := newOpeningBalance.Sub(account.OpeningBalance)
	if difference.IsZero() {
		return nil, nil
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	source, err := s.getOrCreateSource(ctx, tx, models.SourceAdjustment)
	if err != nil {
		return nil, err
	}

	adjustment, err := s.insertTransaction(ctx, tx, insertTransactionParams{
		AccountId:   accountId,
		Date:        today(),
		Description: fmt.Sprintf("Opening balance adjustment: %s", difference.StringFixed(2)),
		Amount:      difference,
		SourceId:    source.Id,
		SourceType:  models.SourceAdjustment,
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, queryUpdateOpeningBalance,
		newOpeningBalance.StringFixed(2), accountId)
	if err != nil {
		return nil, fmt.Errorf("unable to update opening balance: %w", err)
	}
	if _, err := refreshBalanceTx(ctx, tx, accountId); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Opening balance adjusted",
		zap.String("account_id", accountId),
		zap.String("difference", difference.StringFixed(2)),
		zap.String("new_opening_balance", newOpeningBalance.StringFixed(2)))
	return adjustment, nil
}
