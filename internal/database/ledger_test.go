package database

import (
	"context"
	"errors"
	"testing"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestTransfer_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	from := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "500.00")
	to := openTestAccount(t, service, user.Id, "Savings", models.AccountTypeSavings, "0.00")

	amount := decimal.RequireFromString("123.45")
	debit, credit, err := service.Transfer(ctx, from.Id, to.Id, amount, "holiday fund")
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if !debit.Amount.Equal(amount.Neg()) {
		t.Errorf("Expected debit amount %s, got %s", amount.Neg().String(), debit.Amount.String())
	}
	if !credit.Amount.Equal(amount) {
		t.Errorf("Expected credit amount %s, got %s", amount.String(), credit.Amount.String())
	}

	// Transfer back and verify both balances return to their start values.
	if _, _, err := service.Transfer(ctx, to.Id, from.Id, amount, "return"); err != nil {
		t.Fatalf("Return transfer failed: %v", err)
	}

	fromBalance, err := service.ComputeLiveBalance(ctx, from.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	toBalance, err := service.ComputeLiveBalance(ctx, to.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	if !fromBalance.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("Expected from balance 500.00, got %s", fromBalance.String())
	}
	if !toBalance.Equal(decimal.Zero) {
		t.Errorf("Expected to balance 0, got %s", toBalance.String())
	}
}

func TestTransfer_OverdraftBoundary(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	from := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "50.00")
	to := openTestAccount(t, service, user.Id, "Savings", models.AccountTypeSavings, "0.00")

	// Balance 50 plus the 100 allowance: exactly 150.00 must succeed.
	if _, _, err := service.Transfer(ctx, from.Id, to.Id, decimal.RequireFromString("150.00"), ""); err != nil {
		t.Fatalf("Transfer at exact allowance failed: %v", err)
	}

	balance, err := service.ComputeLiveBalance(ctx, from.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("-100.00")) {
		t.Errorf("Expected balance -100.00, got %s", balance.String())
	}

	// One cent beyond the allowance must be rejected.
	_, _, err = service.Transfer(ctx, from.Id, to.Id, decimal.RequireFromString("0.01"), "")
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("Expected insufficient funds, got: %v", err)
	}
}

func TestTransfer_NoAllowanceForSavings(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	from := openTestAccount(t, service, user.Id, "Savings", models.AccountTypeSavings, "50.00")
	to := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "0.00")

	_, _, err := service.Transfer(ctx, from.Id, to.Id, decimal.RequireFromString("50.01"), "")
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Errorf("Expected insufficient funds for savings overdraft, got: %v", err)
	}

	if _, _, err := service.Transfer(ctx, from.Id, to.Id, decimal.RequireFromString("50.00"), ""); err != nil {
		t.Fatalf("Transfer of full savings balance failed: %v", err)
	}
}

func TestTransfer_Invalid(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "100.00")
	other := openTestAccount(t, service, user.Id, "Other", models.AccountTypeCurrent, "100.00")

	_, _, err := service.Transfer(ctx, account.Id, other.Id, decimal.Zero, "")
	if !errors.Is(err, store.ErrInvalidTransfer) {
		t.Errorf("Expected invalid transfer for zero amount, got: %v", err)
	}

	_, _, err = service.Transfer(ctx, account.Id, other.Id, decimal.RequireFromString("-5.00"), "")
	if !errors.Is(err, store.ErrInvalidTransfer) {
		t.Errorf("Expected invalid transfer for negative amount, got: %v", err)
	}

	_, _, err = service.Transfer(ctx, account.Id, account.Id, decimal.RequireFromString("5.00"), "")
	if !errors.Is(err, store.ErrInvalidTransfer) {
		t.Errorf("Expected invalid transfer for same account, got: %v", err)
	}

	_, _, err = service.Transfer(ctx, account.Id, "missing", decimal.RequireFromString("5.00"), "")
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected account not found, got: %v", err)
	}
}

func TestPostTransaction_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "0.00")

	params := store.PostTransactionParams{
		AccountId:   account.Id,
		Date:        today(),
		Description: "salary",
		Amount:      decimal.RequireFromString("2000.00"),
		SourceType:  models.SourceOpenBanking,
		ExternalId:  "feed-tx-1",
	}
	if _, err := service.PostTransaction(ctx, params); err != nil {
		t.Fatalf("First PostTransaction failed: %v", err)
	}

	_, err := service.PostTransaction(ctx, params)
	if !errors.Is(err, store.ErrDuplicateTransaction) {
		t.Errorf("Expected duplicate transaction error, got: %v", err)
	}

	// The rejected posting must not have touched the balance.
	balance, err := service.ComputeLiveBalance(ctx, account.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("Expected balance 2000.00, got %s", balance.String())
	}
}

func TestAdjustOpeningBalance_NoChange(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "100.00")

	adjustment, err := service.AdjustOpeningBalance(ctx, account.Id, decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("AdjustOpeningBalance failed: %v", err)
	}
	if adjustment != nil {
		t.Errorf("Expected no adjustment for unchanged value, got %+v", adjustment)
	}
}

func TestAdjustOpeningBalance_RecordsDifference(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestUser(t, service, "alice")
	account := openTestAccount(t, service, user.Id, "Current", models.AccountTypeCurrent, "100.00")

	adjustment, err := service.AdjustOpeningBalance(ctx, account.Id, decimal.RequireFromString("80.00"))
	if err != nil {
		t.Fatalf("AdjustOpeningBalance failed: %v", err)
	}
	if adjustment == nil {
		t.Fatal("Expected an adjustment transaction, got nil")
	}
	if !adjustment.Amount.Equal(decimal.RequireFromString("-20.00")) {
		t.Errorf("Expected adjustment amount -20.00, got %s", adjustment.Amount.String())
	}
	if adjustment.SourceType != models.SourceAdjustment {
		t.Errorf("Expected source type %s, got %s", models.SourceAdjustment, adjustment.SourceType)
	}

	updated, err := service.GetAccount(ctx, account.Id)
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !updated.OpeningBalance.Equal(decimal.RequireFromString("80.00")) {
		t.Errorf("Expected opening balance 80.00, got %s", updated.OpeningBalance.String())
	}

	// The cache must match the recomputed live balance.
	live, err := service.ComputeLiveBalance(ctx, account.Id)
	if err != nil {
		t.Fatalf("ComputeLiveBalance failed: %v", err)
	}
	if !updated.CurrentBalance.Equal(live) {
		t.Errorf("Cached balance %s does not match live balance %s",
			updated.CurrentBalance.String(), live.String())
	}
}
