package database

import (
	"context"
	"database/sql"
	"testing"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A second pool connection would see an empty in-memory database.
	db.SetMaxOpenConns(1)

	service, err := NewServiceFromDB(db)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func createTestUser(t *testing.T, service *Service, username string) *models.User {
	t.Helper()
	user, err := service.CreateUser(context.Background(), store.CreateUserParams{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func openTestAccount(t *testing.T, service *Service, userId, name string, accountType models.AccountType, opening string) *models.Account {
	t.Helper()
	openingBalance, err := decimal.NewFromString(opening)
	if err != nil {
		t.Fatalf("Invalid opening balance %q: %v", opening, err)
	}
	account, err := service.OpenAccount(context.Background(), store.OpenAccountParams{
		UserId:         userId,
		AccountName:    name,
		AccountType:    accountType,
		OpeningBalance: openingBalance,
		Currency:       "GBP",
	})
	if err != nil {
		t.Fatalf("OpenAccount failed: %v", err)
	}
	return account
}
