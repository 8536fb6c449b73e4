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
	username := flag.String("username", "", "unique username (required)")
	email := flag.String("email", "", "unique email address (required)")
	firstName := flag.String("first", "", "first name (required)")
	lastName := flag.String("last", "", "last name (required)")
	flag.Parse()

	if *username == "" || *email == "" || *firstName == "" || *lastName == "" {
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

	user, err := dbService.CreateUser(ctx, store.CreateUserParams{
		Username:  *username,
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		if errors.Is(err, store.ErrUniquenessViolation) {
			fmt.Printf("Username or email already in use: %s / %s\n", *username, *email)
			os.Exit(1)
		}
		logger.Fatal("Failed to create user", zap.Error(err))
	}

	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:       %s\n", user.Id)
	fmt.Printf("Name:     %s\n", user.FullName())
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	common.PrintSeparator("=", common.DefaultWidth)
}
