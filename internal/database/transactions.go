package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetAccountTransactions returns a page of postings for an account, newest
// first.
func (s *Service) GetAccountTransactions(ctx context.Context, accountId string, limit, offset int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAccountTransactions, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var transaction models.Transaction
	var dateStr, amountStr string
	err := rows.Scan(&transaction.Id, &transaction.ExternalId, &dateStr,
		&transaction.Description, &amountStr, &transaction.CategoryId,
		&transaction.SourceId, &transaction.SourceType, &transaction.RawData,
		&transaction.AccountId, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to scan transaction row: %w", err)
	}

	transaction.Date, err = time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse date %q: %w", dateStr, err)
	}
	transaction.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse amount %q: %w", amountStr, err)
	}
	return &transaction, nil
}

// ImportTransactions persists a batch of normalized rows in one unit of
// work and refreshes the account balance once. Rows whose external id is
// already present are skipped silently and excluded from the returned
// count; rows without an external id are always inserted, even across
// repeated imports of the same file.
func (s *Service) ImportTransactions(ctx context.Context, accountId string, sourceType models.SourceType, importRows []store.ImportedRow) (int, error) {
	if accountId != "" {
		if _, err := s.GetAccount(ctx, accountId); err != nil {
			return 0, err
		}
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	source, err := s.getOrCreateSource(ctx, tx, sourceType)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, row := range importRows {
		if err := checkDuplicate(ctx, tx, row.ExternalId); err != nil {
			if errors.Is(err, store.ErrDuplicateTransaction) {
				zap.L().Debug("Skipping duplicate import row",
					zap.String("external_id", row.ExternalId))
				continue
			}
			return 0, err
		}

		_, err := s.insertTransaction(ctx, tx, insertTransactionParams{
			AccountId:   accountId,
			Date:        row.Date,
			Description: row.Description,
			Amount:      row.Amount,
			SourceId:    source.Id,
			SourceType:  sourceType,
			ExternalId:  row.ExternalId,
			RawData:     row.RawData,
		})
		if err != nil {
			return 0, err
		}
		inserted++
	}

	if accountId != "" {
		if _, err := refreshBalanceTx(ctx, tx, accountId); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Import batch persisted",
		zap.String("account_id", accountId),
		zap.String("source_type", string(sourceType)),
		zap.Int("inserted", inserted),
		zap.Int("skipped", len(importRows)-inserted))
	return inserted, nil
}

// UpdateTransactionCategory assigns a category to a posting; an empty
// category id clears the assignment. With applyToSameDescription every
// posting sharing the transaction's description is recategorized in one
// statement, which is how imported merchant rows get bulk-labelled. Returns
// the number of postings updated.
func (s *Service) UpdateTransactionCategory(ctx context.Context, transactionId, categoryId string, applyToSameDescription bool) (int, error) {
	if categoryId != "" {
		var count int
		if err := s.db.QueryRowContext(ctx, queryCountCategoryById, categoryId).Scan(&count); err != nil {
			return 0, fmt.Errorf("unable to check category: %w", err)
		}
		if count == 0 {
			return 0, fmt.Errorf("%w: %s", store.ErrCategoryNotFound, categoryId)
		}
	}

	var description string
	err := s.db.QueryRowContext(ctx, queryGetTransactionDescription, transactionId).Scan(&description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", store.ErrTransactionNotFound, transactionId)
		}
		return 0, fmt.Errorf("unable to query transaction: %w", err)
	}

	now := time.Now().UTC()
	var result sql.Result
	if applyToSameDescription {
		result, err = s.db.ExecContext(ctx, queryUpdateCategoryByDescription, categoryId, now, description)
	} else {
		result, err = s.db.ExecContext(ctx, queryUpdateTransactionCategory, categoryId, now, transactionId)
	}
	if err != nil {
		return 0, fmt.Errorf("unable to update transaction category: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unable to get rows affected: %w", err)
	}

	zap.L().Info("Transaction category updated",
		zap.String("transaction_id", transactionId),
		zap.String("category_id", categoryId),
		zap.Bool("apply_to_same_description", applyToSameDescription),
		zap.Int64("updated", updated))
	return int(updated), nil
}
