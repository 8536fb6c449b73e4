package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestOpenAccount_CreatesOpeningTransaction(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Everyday", models.AccountTypeCurrent, "250.00")

	transactions, err := service.GetAccountTransactions(ctx, account.Id, 10, 0)
	if err != nil {
		t.Fatalf("GetAccountTransactions failed: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 opening transaction, got %d", len(transactions))
	}
	if transactions[0].SourceType != models.SourceOpeningBalance {
		t.Errorf("Expected source type %s, got %s", models.SourceOpeningBalance, transactions[0].SourceType)
	}
	if !transactions[0].Amount.Equal(decimal.RequireFromString("250.00")) {
		t.Errorf("Expected opening amount 250.00, got %s", transactions[0].Amount.String())
	}
}

func TestOpenAccount_ZeroOpeningBalance(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Empty", models.AccountTypeSavings, "0.00")

	transactions, err := service.GetAccountTransactions(ctx, account.Id, 10, 0)
	if err != nil {
		t.Fatalf("GetAccountTransactions failed: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("Expected no transactions for zero opening balance, got %d", len(transactions))
	}
}

// A failed opening-balance posting must roll back the account row too.
func TestOpenAccount_RollsBackOnOpeningTransactionFailure(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")

	_, err := service.db.Exec(`
		CREATE TRIGGER block_transaction_inserts BEFORE INSERT ON transactions
		BEGIN SELECT RAISE(ABORT, 'blocked'); END`)
	if err != nil {
		t.Fatalf("Failed to create blocking trigger: %v", err)
	}

	_, err = service.OpenAccount(ctx, store.OpenAccountParams{
		UserId:         user.Id,
		AccountName:    "Doomed",
		AccountType:    models.AccountTypeCurrent,
		OpeningBalance: decimal.RequireFromString("100.00"),
	})
	if err == nil {
		t.Fatal("Expected OpenAccount to fail, got nil")
	}

	var accountCount int
	if err := service.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accountCount); err != nil {
		t.Fatalf("Failed to count accounts: %v", err)
	}
	if accountCount != 0 {
		t.Errorf("Expected 0 accounts after rollback, got %d", accountCount)
	}
}

func TestOpenAccount_InvalidCurrency(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")

	for _, currency := range []string{"gbp", "POUNDS", "G", "12£"} {
		_, err := service.OpenAccount(ctx, store.OpenAccountParams{
			UserId:      user.Id,
			AccountName: "Bad currency",
			AccountType: models.AccountTypeCurrent,
			Currency:    currency,
		})
		if err == nil {
			t.Errorf("Expected error for currency %q, got nil", currency)
		}
	}
}

func TestOpenAccount_UnknownType(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")

	_, err := service.OpenAccount(ctx, store.OpenAccountParams{
		UserId:      user.Id,
		AccountName: "Bad",
		AccountType: "offshore",
	})
	if err == nil {
		t.Fatal("Expected error for unknown account type, got nil")
	}
}

// Summing 10,000 one-cent postings must land on exactly 100.00; a float64
// accumulator would drift.
func TestComputeLiveBalance_CentExact(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Pennies", models.AccountTypeCurrent, "0.00")

	oneCent := decimal.RequireFromString("0.01")
	rows := make([]store.ImportedRow, 0, 10000)
	for i := 0; i < 10000; i++ {
		rows = append(rows, store.ImportedRow{
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Description: "penny",
			Amount:      oneCent,
		})
	}
	inserted, err := service.ImportTransactions(ctx, account.Id, models.SourceCSVImport, rows)
	if err != nil {
		t.Fatalf("ImportTransactions failed: %v", err)
	}
	if inserted != 10000 {
		t.Fatalf("Expected 10000 inserted rows, got %d", inserted)
	}

	balance, err := service.ComputeLiveBalance(ctx, account.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Expected balance exactly 100.00, got %s", balance.String())
	}
}

func TestDeactivateAccount_RecentActivity(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")

	// The opening-balance transaction is dated today, so the account has
	// recent activity by definition.
	account := openTestAccount(t, service, user.Id, "Busy", models.AccountTypeCurrent, "100.00")

	err := service.DeactivateAccount(ctx, account.Id)
	if !errors.Is(err, store.ErrAccountHasRecentActivity) {
		t.Errorf("Expected recent activity error, got: %v", err)
	}
}

func TestGetAccounts_ExcludesDeactivated(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	keep := openTestAccount(t, service, user.Id, "Keep", models.AccountTypeCurrent, "0.00")
	drop := openTestAccount(t, service, user.Id, "Drop", models.AccountTypeSavings, "0.00")

	if err := service.DeactivateAccount(ctx, drop.Id); err != nil {
		t.Fatalf("DeactivateAccount failed: %v", err)
	}

	accounts, err := service.GetAccounts(ctx)
	if err != nil {
		t.Fatalf("GetAccounts failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 active account, got %d", len(accounts))
	}
	if accounts[0].Id != keep.Id {
		t.Errorf("Expected account %s, got %s", keep.Id, accounts[0].Id)
	}
}

func TestRefreshBalance_UpdatesCache(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Everyday", models.AccountTypeCurrent, "50.00")

	_, err := service.ImportTransactions(ctx, account.Id, models.SourceManual, []store.ImportedRow{
		{Date: today(), Description: "coffee", Amount: decimal.RequireFromString("-2.50")},
	})
	if err != nil {
		t.Fatalf("ImportTransactions failed: %v", err)
	}

	balance, err := service.RefreshBalance(ctx, account.Id)
	if err != nil {
		t.Fatalf("RefreshBalance failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("47.50")) {
		t.Errorf("Expected balance 47.50, got %s", balance.String())
	}

	refreshed, err := service.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !refreshed.CurrentBalance.Equal(balance) {
		t.Errorf("Cached balance %s does not match live balance %s",
			refreshed.CurrentBalance.String(), balance.String())
	}
}
