package database

import (
	"context"
	"database/sql"
	"fmt"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) CreateCategory(ctx context.Context, params store.CreateCategoryParams) (*models.Category, error) {
	if params.Type != "income" && params.Type != "expense" {
		return nil, fmt.Errorf("category type must be income or expense, got %q", params.Type)
	}
	color := params.Color
	if color == "" {
		color = "#3498db"
	}
	budget := ""
	if !params.MonthlyBudget.IsZero() {
		budget = params.MonthlyBudget.StringFixed(2)
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, queryInsertCategory,
		id, params.Name, params.Type, color, params.ParentId,
		params.Description, budget, params.Recurring)
	if err != nil {
		return nil, fmt.Errorf("unable to insert category: %w", err)
	}

	zap.L().Info("Category created",
		zap.String("category_id", id),
		zap.String("name", params.Name),
		zap.String("type", params.Type))

	return &models.Category{
		Id:            id,
		Name:          params.Name,
		Type:          params.Type,
		Color:         color,
		ParentId:      params.ParentId,
		Description:   params.Description,
		MonthlyBudget: params.MonthlyBudget,
		Recurring:     params.Recurring,
	}, nil
}

func (s *Service) GetCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, queryGetCategories)
	if err != nil {
		return nil, fmt.Errorf("unable to query categories: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		var budgetStr string
		err := rows.Scan(&category.Id, &category.Name, &category.Type, &category.Color,
			&category.ParentId, &category.Description, &budgetStr,
			&category.Recurring, &category.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan category row: %w", err)
		}
		if budgetStr != "" {
			category.MonthlyBudget, err = decimal.NewFromString(budgetStr)
			if err != nil {
				return nil, fmt.Errorf("unable to parse monthly budget %q: %w", budgetStr, err)
			}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// DeleteCategory hard-deletes a category. Categories still referenced by
// transactions or subcategories are refused before any write is attempted.
func (s *Service) DeleteCategory(ctx context.Context, categoryId string) error {
	var transactionCount int
	err := s.db.QueryRowContext(ctx, queryCountCategoryTransactions, categoryId).Scan(&transactionCount)
	if err != nil {
		return fmt.Errorf("unable to count category transactions: %w", err)
	}
	if transactionCount > 0 {
		return fmt.Errorf("%w: %d transactions", store.ErrCategoryInUse, transactionCount)
	}

	var subcategoryCount int
	err = s.db.QueryRowContext(ctx, queryCountSubcategories, categoryId).Scan(&subcategoryCount)
	if err != nil {
		return fmt.Errorf("unable to count subcategories: %w", err)
	}
	if subcategoryCount > 0 {
		return fmt.Errorf("%w: %d subcategories", store.ErrCategoryInUse, subcategoryCount)
	}

	if _, err := s.db.ExecContext(ctx, queryDeleteCategory, categoryId); err != nil {
		return fmt.Errorf("unable to delete category: %w", err)
	}

	zap.L().Info("Category deleted", zap.String("category_id", categoryId))
	return nil
}
