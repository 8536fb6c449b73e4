package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finance-ledger-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListRecurringPatterns returns the active patterns. Detection runs outside
// this core; the rows are read-only here.
func (s *Service) ListRecurringPatterns(ctx context.Context) ([]models.RecurringPattern, error) {
	rows, err := s.db.QueryContext(ctx, queryListRecurringPatterns)
	if err != nil {
		return nil, fmt.Errorf("unable to query recurring patterns: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var patterns []models.RecurringPattern
	for rows.Next() {
		var pattern models.RecurringPattern
		var amountStr, lastDateStr, confidenceStr string
		err := rows.Scan(&pattern.Id, &pattern.DescriptionNorm, &amountStr,
			&pattern.AvgIntervalDays, &lastDateStr, &pattern.Occurrences,
			&confidenceStr, &pattern.CategoryId, &pattern.Active)
		if err != nil {
			return nil, fmt.Errorf("unable to scan recurring pattern row: %w", err)
		}

		pattern.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse amount %q: %w", amountStr, err)
		}
		pattern.Confidence, err = decimal.NewFromString(confidenceStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse confidence %q: %w", confidenceStr, err)
		}
		if lastDateStr != "" {
			pattern.LastDate, err = time.Parse(dateFormat, lastDateStr)
			if err != nil {
				return nil, fmt.Errorf("unable to parse last date %q: %w", lastDateStr, err)
			}
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring pattern rows: %w", err)
	}
	return patterns, nil
}
