package main

import (
	"context"
	"flag"
	"fmt"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/money"

	"go.uber.org/zap"
)

func main() {
	showPatterns := flag.Bool("patterns", false, "also list detected recurring patterns")
	flag.Parse()

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	accounts, err := dbService.GetAccounts(ctx)
	if err != nil {
		logger.Fatal("Failed to list accounts", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT BALANCES", common.DefaultWidth)
	if len(accounts) == 0 {
		fmt.Println("No active accounts")
	}
	for i, account := range accounts {
		live, err := dbService.ComputeLiveBalance(ctx, account.Id)
		if err != nil {
			logger.Fatal("Failed to compute balance",
				zap.String("account_id", account.Id), zap.Error(err))
		}
		prefix := common.BoxPrefix(i == len(accounts)-1)
		fmt.Printf("%s%-30s %-18s %s\n", prefix, account.AccountName,
			models.AccountTypes[account.AccountType], money.Format(live, account.Currency))
		if !live.Equal(account.CurrentBalance) {
			fmt.Printf("%s  cached balance %s is stale\n", prefix,
				money.Format(account.CurrentBalance, account.Currency))
		}
	}

	if *showPatterns {
		patterns, err := dbService.ListRecurringPatterns(ctx)
		if err != nil {
			logger.Fatal("Failed to list recurring patterns", zap.Error(err))
		}
		common.PrintBoxSeparator(common.DefaultWidth - 2)
		fmt.Printf("Recurring patterns: %d\n", len(patterns))
		for _, pattern := range patterns {
			fmt.Printf("  %-30s every ~%d days, %d occurrences, confidence %s\n",
				pattern.DescriptionNorm, pattern.AvgIntervalDays,
				pattern.Occurrences, pattern.Confidence.StringFixed(2))
		}
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
