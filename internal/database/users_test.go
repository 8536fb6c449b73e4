package database

import (
	"context"
	"errors"
	"testing"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

func TestCreateUser_DuplicateUsername(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "alice")

	_, err := service.CreateUser(ctx, store.CreateUserParams{
		Username:  "alice",
		Email:     "other@example.com",
		FirstName: "Other",
		LastName:  "Person",
	})
	if !errors.Is(err, store.ErrUniquenessViolation) {
		t.Errorf("Expected uniqueness violation, got: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "alice")

	_, err := service.CreateUser(ctx, store.CreateUserParams{
		Username:  "alice2",
		Email:     "alice@example.com",
		FirstName: "Other",
		LastName:  "Person",
	})
	if !errors.Is(err, store.ErrUniquenessViolation) {
		t.Errorf("Expected uniqueness violation, got: %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	created := createTestUser(t, service, "bob")

	user, err := service.GetUserByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if user.Id != created.Id {
		t.Errorf("Expected user id %s, got %s", created.Id, user.Id)
	}

	_, err = service.GetUserByUsername(ctx, "nobody")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected user not found, got: %v", err)
	}
}

func TestDeleteUser_WithActiveAccounts(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "carol")
	account := openTestAccount(t, service, user.Id, "Everyday", models.AccountTypeCurrent, "0.00")

	err := service.DeleteUser(ctx, user.Id)
	if !errors.Is(err, store.ErrUserHasAccounts) {
		t.Errorf("Expected user has accounts error, got: %v", err)
	}

	// With no recent transactions the account can be deactivated, after
	// which the user delete goes through.
	if err := service.DeactivateAccount(ctx, account.Id); err != nil {
		t.Fatalf("DeactivateAccount failed: %v", err)
	}
	if err := service.DeleteUser(ctx, user.Id); err != nil {
		t.Fatalf("DeleteUser after deactivation failed: %v", err)
	}

	_, err = service.GetUserById(ctx, user.Id)
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("Expected user not found after delete, got: %v", err)
	}
}
