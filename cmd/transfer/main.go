package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/money"
	"finance-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	fromId := flag.String("from", "", "source account id (required)")
	toId := flag.String("to", "", "destination account id (required)")
	amountStr := flag.String("amount", "", "amount to transfer (required)")
	description := flag.String("description", "", "transfer description")
	flag.Parse()

	if *fromId == "" || *toId == "" || *amountStr == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	amount, err := decimal.NewFromString(*amountStr)
	if err != nil {
		logger.Fatal("Invalid amount", zap.String("value", *amountStr), zap.Error(err))
	}

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	debit, credit, err := dbService.Transfer(ctx, *fromId, *toId, amount, *description)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientFunds):
			fmt.Printf("Insufficient funds: %v\n", err)
			os.Exit(1)
		case errors.Is(err, store.ErrInvalidTransfer):
			fmt.Printf("Invalid transfer: %v\n", err)
			os.Exit(1)
		default:
			logger.Fatal("Transfer failed", zap.Error(err))
		}
	}

	fromBalance, err := dbService.ComputeLiveBalance(ctx, *fromId)
	if err != nil {
		logger.Fatal("Failed to compute balance", zap.Error(err))
	}
	toBalance, err := dbService.ComputeLiveBalance(ctx, *toId)
	if err != nil {
		logger.Fatal("Failed to compute balance", zap.Error(err))
	}

	fromAccount, err := dbService.GetAccount(ctx, *fromId)
	if err != nil {
		logger.Fatal("Failed to load account", zap.Error(err))
	}
	toAccount, err := dbService.GetAccount(ctx, *toId)
	if err != nil {
		logger.Fatal("Failed to load account", zap.Error(err))
	}

	common.PrintHeader("TRANSFER COMPLETE", common.DefaultWidth)
	fmt.Printf("Debit:  %s  %s (%s)\n", debit.Id, fromAccount.AccountName,
		money.Format(debit.Amount, fromAccount.Currency))
	fmt.Printf("Credit: %s  %s (%s)\n", credit.Id, toAccount.AccountName,
		money.Format(credit.Amount, toAccount.Currency))
	common.PrintBoxSeparator(common.DefaultWidth - 2)
	fmt.Printf("%s balance: %s\n", fromAccount.AccountName, money.Format(fromBalance, fromAccount.Currency))
	fmt.Printf("%s balance: %s\n", toAccount.AccountName, money.Format(toBalance, toAccount.Currency))
	common.PrintSeparator("=", common.DefaultWidth)
}
