package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	transactionId := flag.String("transaction", "", "transaction id (required)")
	categoryId := flag.String("category", "", "category id; empty clears the assignment")
	applySame := flag.Bool("apply-same", false, "recategorize every transaction with the same description")
	flag.Parse()

	if *transactionId == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	updated, err := dbService.UpdateTransactionCategory(ctx, *transactionId, *categoryId, *applySame)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTransactionNotFound):
			fmt.Printf("Transaction not found: %s\n", *transactionId)
			os.Exit(1)
		case errors.Is(err, store.ErrCategoryNotFound):
			fmt.Printf("Category not found: %s\n", *categoryId)
			os.Exit(1)
		default:
			logger.Fatal("Failed to update category", zap.Error(err))
		}
	}

	common.PrintHeader("CATEGORY UPDATED", common.DefaultWidth)
	if *categoryId == "" {
		fmt.Printf("Cleared category on %d transaction(s)\n", updated)
	} else {
		fmt.Printf("Assigned category %s to %d transaction(s)\n", *categoryId, updated)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
