package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account for display and overdraft rules.
type AccountType string

const (
	AccountTypeCurrent    AccountType = "current"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
)

// AccountTypes lists every valid account type with its display label.
var AccountTypes = map[AccountType]string{
	AccountTypeCurrent:    "Current Account",
	AccountTypeSavings:    "Savings Account",
	AccountTypeCredit:     "Credit Card",
	AccountTypeLoan:       "Loan Account",
	AccountTypeInvestment: "Investment Account",
}

// SourceType tags how a transaction entered the system.
type SourceType string

const (
	SourceOpeningBalance SourceType = "opening_balance"
	SourceCSVImport      SourceType = "csv_import"
	SourceManual         SourceType = "manual"
	SourceTransfer       SourceType = "transfer"
	SourceAdjustment     SourceType = "adjustment"
	SourceOpenBanking    SourceType = "open_banking"
)

// User owns zero or more accounts. Username and email are globally unique.
type User struct {
	Id        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

// FullName returns the user's display name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Account holds a cached current_balance that may be stale; the live balance
// is always opening_balance plus the sum of linked transaction amounts.
type Account struct {
	Id                string          `db:"id"`
	UserId            string          `db:"user_id"`
	AccountName       string          `db:"account_name"`
	AccountType       AccountType     `db:"account_type"`
	OpeningBalance    decimal.Decimal `db:"opening_balance"`
	CurrentBalance    decimal.Decimal `db:"current_balance"`
	Currency          string          `db:"currency"`
	Active            bool            `db:"active"`
	BankConnectionId  string          `db:"bank_connection_id"`
	ExternalAccountId string          `db:"external_account_id"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Transaction is a single posting against one account. Positive amounts are
// credits (inflows), negative amounts are debits (outflows).
type Transaction struct {
	Id          string          `db:"id"`
	ExternalId  string          `db:"external_id"`
	Date        time.Time       `db:"date"` // calendar date, no time component
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	CategoryId  string          `db:"category_id"`
	SourceId    string          `db:"source_id"`
	SourceType  SourceType      `db:"source_type"`
	RawData     string          `db:"raw_data"`
	AccountId   string          `db:"account_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Source is a provenance tag, one row per SourceType.
type Source struct {
	Id        string     `db:"id"`
	Name      string     `db:"name"`
	Type      SourceType `db:"type"`
	Active    bool       `db:"active"`
	CreatedAt time.Time  `db:"created_at"`
}

// Category groups transactions; one level of parent nesting in practice.
type Category struct {
	Id            string          `db:"id"`
	Name          string          `db:"name"`
	Type          string          `db:"type"` // income | expense
	Color         string          `db:"color"`
	ParentId      string          `db:"parent_id"`
	Description   string          `db:"description"`
	MonthlyBudget decimal.Decimal `db:"monthly_budget"`
	Recurring     bool            `db:"is_recurring"`
	CreatedAt     time.Time       `db:"created_at"`
}

// RecurringPattern is populated by an external detection job; this core only
// stores and lists the rows.
type RecurringPattern struct {
	Id              string          `db:"id"`
	DescriptionNorm string          `db:"description_norm"`
	Amount          decimal.Decimal `db:"amount"`
	AvgIntervalDays int             `db:"avg_interval_days"`
	LastDate        time.Time       `db:"last_date"`
	Occurrences     int             `db:"occurrences"`
	Confidence      decimal.Decimal `db:"confidence"`
	CategoryId      string          `db:"category_id"`
	Active          bool            `db:"is_active"`
}
