package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/money"
	"finance-ledger-go/internal/openbanking"

	"go.uber.org/zap"
)

func main() {
	providerId := flag.String("provider", "", "banking provider id (required)")
	connectUser := flag.String("connect", "", "username to connect to the provider")
	accountId := flag.String("account", "", "connected account id to sync")
	flag.Parse()

	if *providerId == "" || (*connectUser == "" && *accountId == "") {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	registry, err := openbanking.LoadProviders(cfg.Sync.ProvidersFile)
	if err != nil {
		logger.Fatal("Failed to load providers", zap.Error(err))
	}

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	syncService := openbanking.NewService(dbService, registry)

	if *connectUser != "" {
		user, err := dbService.GetUserByUsername(ctx, *connectUser)
		if err != nil {
			logger.Fatal("Failed to look up user", zap.String("username", *connectUser), zap.Error(err))
		}

		accounts, err := syncService.Connect(ctx, user.Id, *providerId)
		if err != nil {
			logger.Fatal("Failed to connect bank", zap.Error(err))
		}

		common.PrintHeader("BANK CONNECTED", common.DefaultWidth)
		for i, account := range accounts {
			fmt.Printf("%s%s  %s (%s)\n", common.BoxPrefix(i == len(accounts)-1),
				account.Id, account.AccountName, account.Currency)
		}
		common.PrintSeparator("=", common.DefaultWidth)
		return
	}

	imported, err := syncService.Sync(ctx, *accountId, *providerId, cfg.Sync.LookbackWindow)
	if err != nil {
		logger.Fatal("Failed to sync account", zap.Error(err))
	}

	balance, err := dbService.RefreshBalance(ctx, *accountId)
	if err != nil {
		logger.Fatal("Failed to refresh balance", zap.Error(err))
	}
	account, err := dbService.GetAccount(ctx, *accountId)
	if err != nil {
		logger.Fatal("Failed to load account", zap.Error(err))
	}

	common.PrintHeader("SYNC COMPLETE", common.DefaultWidth)
	fmt.Printf("Account:  %s\n", account.AccountName)
	fmt.Printf("Imported: %d new transactions\n", imported)
	fmt.Printf("Balance:  %s\n", money.Format(balance, account.Currency))
	common.PrintSeparator("=", common.DefaultWidth)
}
