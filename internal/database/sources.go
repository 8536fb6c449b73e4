package database

import (
	"context"
	"fmt"

	"finance-ledger-go/internal/models"

	"github.com/google/uuid"
)

// sourceDisplayNames maps each source type to its human-readable name, used
// when the row is first created.
var sourceDisplayNames = map[models.SourceType]string{
	models.SourceOpeningBalance: "Opening Balance",
	models.SourceCSVImport:      "CSV Import",
	models.SourceManual:         "Manual Entry",
	models.SourceTransfer:       "Internal Transfer",
	models.SourceAdjustment:     "Balance Adjustment",
	models.SourceOpenBanking:    "Open Banking",
}

// GetOrCreateSource returns the singleton source row for a type, creating it
// on first use. The UNIQUE(type) constraint plus INSERT OR IGNORE makes this
// safe even under concurrent writers.
func (s *Service) GetOrCreateSource(ctx context.Context, sourceType models.SourceType) (*models.Source, error) {
	return s.getOrCreateSource(ctx, s.db, sourceType)
}

func (s *Service) getOrCreateSource(ctx context.Context, q querier, sourceType models.SourceType) (*models.Source, error) {
	name, ok := sourceDisplayNames[sourceType]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}

	_, err := q.ExecContext(ctx, queryInsertSourceIgnore, uuid.New().String(), name, string(sourceType))
	if err != nil {
		return nil, fmt.Errorf("unable to insert source: %w", err)
	}

	var source models.Source
	err = q.QueryRowContext(ctx, queryGetSourceByType, string(sourceType)).Scan(
		&source.Id, &source.Name, &source.Type, &source.Active, &source.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to query source by type: %w", err)
	}
	return &source, nil
}
