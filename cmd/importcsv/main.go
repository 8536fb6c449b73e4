package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"finance-ledger-go/internal/common"
	"finance-ledger-go/internal/config"
	"finance-ledger-go/internal/importer"
	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	accountId := flag.String("account", "", "account id to import into (required)")
	file := flag.String("file", "", "CSV file to import (required)")
	manual := flag.Bool("manual", false, "tag rows as manual entry instead of csv_import")
	flag.Parse()

	if *accountId == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, cleanup := common.InitializeLogger()
	defer cleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open import file", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	rows, err := importer.ReadRows(f)
	if err != nil {
		logger.Fatal("Failed to read import file", zap.String("file", *file), zap.Error(err))
	}

	result := importer.NormalizeRows(rows)

	ctx := context.Background()
	dbService, err := common.InitializeStore(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer dbService.Close()

	sourceType := models.SourceCSVImport
	if *manual {
		sourceType = models.SourceManual
	}

	importRows := make([]store.ImportedRow, 0, len(result.Accepted))
	for _, transaction := range result.Accepted {
		importRows = append(importRows, store.ImportedRow{
			Date:        transaction.Date,
			Description: transaction.Description,
			Amount:      transaction.Amount,
			RawData:     transaction.Raw,
		})
	}

	// Accepted rows are persisted even when other rows failed.
	inserted, err := dbService.ImportTransactions(ctx, *accountId, sourceType, importRows)
	if err != nil {
		logger.Fatal("Failed to persist import", zap.Error(err))
	}

	balance, err := dbService.RefreshBalance(ctx, *accountId)
	if err != nil {
		logger.Fatal("Failed to refresh balance", zap.Error(err))
	}

	common.PrintHeader("IMPORT COMPLETE", common.DefaultWidth)
	fmt.Printf("File:     %s\n", *file)
	fmt.Printf("Imported: %d of %d rows\n", inserted, len(rows))
	fmt.Printf("Balance:  %s\n", balance.StringFixed(2))
	if len(result.Errors) > 0 {
		common.PrintBoxSeparator(common.DefaultWidth - 2)
		fmt.Printf("Rejected rows: %d\n", len(result.Errors))
		for _, rowErr := range result.Errors {
			fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
		}
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
