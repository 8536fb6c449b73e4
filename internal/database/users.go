package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, params store.CreateUserParams) (*models.User, error) {
	zap.L().Info("Creating user",
		zap.String("username", params.Username),
		zap.String("email", params.Email))

	id := uuid.New().String()
	result, err := s.db.ExecContext(ctx, queryInsertUser,
		id, params.Username, params.Email, params.FirstName, params.LastName)
	if err != nil {
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// UNIQUE(username) or UNIQUE(email) swallowed the insert.
		return nil, fmt.Errorf("%w: %s / %s", store.ErrUniquenessViolation, params.Username, params.Email)
	}

	return s.GetUserById(ctx, id)
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).Scan(
		&user.Id, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, userId)
		}
		return nil, fmt.Errorf("unable to query user by id: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByUsername, username).Scan(
		&user.Id, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("unable to query user by username: %w", err)
	}
	return &user, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryGetActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.Id, &user.Username, &user.Email, &user.FirstName,
			&user.LastName, &user.Active, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user. A user with any active account cannot be
// deleted; the account must be deactivated first.
func (s *Service) DeleteUser(ctx context.Context, userId string) error {
	if _, err := s.GetUserById(ctx, userId); err != nil {
		return err
	}

	var activeAccounts int
	err := s.db.QueryRowContext(ctx, queryCountActiveUserAccounts, userId).Scan(&activeAccounts)
	if err != nil {
		return fmt.Errorf("unable to count user accounts: %w", err)
	}
	if activeAccounts > 0 {
		return fmt.Errorf("%w: %d active accounts", store.ErrUserHasAccounts, activeAccounts)
	}

	if _, err := s.db.ExecContext(ctx, queryDeleteUser, userId); err != nil {
		return fmt.Errorf("unable to delete user: %w", err)
	}

	zap.L().Info("User deleted", zap.String("user_id", userId))
	return nil
}
