package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/money"
	"finance-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	username := flag.String("user", "", "username of the account owner (required)")
	name := flag.String("name", "", "account display name (required)")
	accountType := flag.String("type", "current", "account type: current, savings, credit, loan, investment")
	opening := flag.String("opening", "0.00", "opening balance")
	currency := flag.String("currency", "GBP", "ISO 4217 currency code")
	flag.Parse()

	if *username == "" || *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	openingBalance, err := decimal.NewFromString(*opening)
	if err != nil {
		logger.Fatal("Invalid opening balance", zap.String("value", *opening), zap.Error(err))
	}

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	user, err := dbService.GetUserByUsername(ctx, *username)
	if err != nil {
		logger.Fatal("Failed to look up user", zap.String("username", *username), zap.Error(err))
	}

	account, err := dbService.OpenAccount(ctx, store.OpenAccountParams{
		UserId:         user.Id,
		AccountName:    *name,
		AccountType:    models.AccountType(*accountType),
		OpeningBalance: openingBalance,
		Currency:       *currency,
	})
	if err != nil {
		logger.Fatal("Failed to open account", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT OPENED", common.DefaultWidth)
	fmt.Printf("ID:              %s\n", account.Id)
	fmt.Printf("Owner:           %s\n", user.FullName())
	fmt.Printf("Name:            %s\n", account.AccountName)
	fmt.Printf("Type:            %s\n", models.AccountTypes[account.AccountType])
	fmt.Printf("Opening balance: %s\n", money.Format(account.OpeningBalance, account.Currency))
	common.PrintSeparator("=", common.DefaultWidth)
}
