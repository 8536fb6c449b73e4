package store

import (
	"context"
	"errors"
	"time"

	"finance-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrDuplicateTransaction     = errors.New("duplicate transaction")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInvalidTransfer          = errors.New("invalid transfer")
	ErrAccountNotFound          = errors.New("account not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrUniquenessViolation      = errors.New("username or email already in use")
	ErrCategoryInUse            = errors.New("category has transactions or subcategories")
	ErrUserHasAccounts          = errors.New("user has active accounts")
	ErrAccountHasRecentActivity = errors.New("account has recent transactions")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrCategoryNotFound         = errors.New("category not found")
)

// CreateUserParams contains the parameters for registering a user.
type CreateUserParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// OpenAccountParams contains the parameters for opening an account. A
// non-zero opening balance produces an opening-balance transaction dated
// today, created atomically with the account.
type OpenAccountParams struct {
	UserId            string
	AccountName       string
	AccountType       models.AccountType
	OpeningBalance    decimal.Decimal
	Currency          string
	BankConnectionId  string
	ExternalAccountId string
}

// PostTransactionParams contains the parameters for a single posting. A
// non-empty ExternalId is the deduplication key: a posting whose external id
// already exists is rejected with ErrDuplicateTransaction and writes nothing.
type PostTransactionParams struct {
	AccountId   string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	SourceType  models.SourceType
	ExternalId  string
	CategoryId  string
	RawData     string
}

// CreateCategoryParams contains the parameters for creating a category.
type CreateCategoryParams struct {
	Name          string
	Type          string // income | expense
	Color         string
	ParentId      string
	Description   string
	MonthlyBudget decimal.Decimal
	Recurring     bool
}

// ImportedRow is one normalized row ready to persist.
type ImportedRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	RawData     string
	ExternalId  string
}

// LedgerStore defines the contract the persistence backend must satisfy.
type LedgerStore interface {
	// --- Users ---
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userId string) error

	// --- Accounts ---
	OpenAccount(ctx context.Context, params OpenAccountParams) (*models.Account, error)
	GetAccount(ctx context.Context, accountId string) (*models.Account, error)
	// GetAccounts lists active accounts; deactivated accounts are excluded.
	GetAccounts(ctx context.Context) ([]models.Account, error)
	DeactivateAccount(ctx context.Context, accountId string) error
	ReactivateAccount(ctx context.Context, accountId string) error
	ComputeLiveBalance(ctx context.Context, accountId string) (decimal.Decimal, error)
	RefreshBalance(ctx context.Context, accountId string) (decimal.Decimal, error)

	// --- Ledger ---
	PostTransaction(ctx context.Context, params PostTransactionParams) (*models.Transaction, error)
	Transfer(ctx context.Context, fromId, toId string, amount decimal.Decimal, description string) (*models.Transaction, *models.Transaction, error)
	AdjustOpeningBalance(ctx context.Context, accountId string, newOpeningBalance decimal.Decimal) (*models.Transaction, error)

	// --- Sources ---
	GetOrCreateSource(ctx context.Context, sourceType models.SourceType) (*models.Source, error)

	// --- Categories ---
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, categoryId string) error

	// --- Transactions ---
	GetAccountTransactions(ctx context.Context, accountId string, limit, offset int) ([]models.Transaction, error)
	ImportTransactions(ctx context.Context, accountId string, sourceType models.SourceType, rows []ImportedRow) (int, error)
	UpdateTransactionCategory(ctx context.Context, transactionId, categoryId string, applyToSameDescription bool) (int, error)

	// --- Recurring patterns ---
	ListRecurringPatterns(ctx context.Context) ([]models.RecurringPattern, error)

	// --- Lifecycle ---
	Close()
}
