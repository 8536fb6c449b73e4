package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	accountId := flag.String("account", "", "account id (required)")
	openingStr := flag.String("opening", "", "new opening balance (required)")
	flag.Parse()

	if *accountId == "" || *openingStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	newOpening, err := decimal.NewFromString(*openingStr)
	if err != nil {
		logger.Fatal("Invalid opening balance", zap.String("value", *openingStr), zap.Error(err))
	}

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	adjustment, err := dbService.AdjustOpeningBalance(ctx, *accountId, newOpening)
	if err != nil {
		logger.Fatal("Failed to adjust opening balance", zap.Error(err))
	}

	account, err := dbService.GetAccount(ctx, *accountId)
	if err != nil {
		logger.Fatal("Failed to load account", zap.Error(err))
	}

	common.PrintHeader("OPENING BALANCE ADJUSTED", common.DefaultWidth)
	fmt.Printf("Account:         %s\n", account.AccountName)
	fmt.Printf("Opening balance: %s\n", money.Format(account.OpeningBalance, account.Currency))
	if adjustment == nil {
		fmt.Println("No change: opening balance already at requested value")
	} else {
		fmt.Printf("Adjustment:      %s (%s)\n",
			money.Format(adjustment.Amount, account.Currency), adjustment.Id)
	}
	fmt.Printf("Current balance: %s\n", money.Format(account.CurrentBalance, account.Currency))
	common.PrintSeparator("=", common.DefaultWidth)
}
