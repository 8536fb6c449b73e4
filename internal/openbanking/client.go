package openbanking

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockClient stands in for a real Open Banking API. No network calls are
// made; responses are generated locally. Feed transactions are a
// deterministic function of (provider, external account, day) so repeated
// syncs over overlapping windows replay identical external ids.
type MockClient struct {
	provider Provider
}

func NewMockClient(provider Provider) *MockClient {
	return &MockClient{provider: provider}
}

// TokenResponse mirrors an OAuth2 token exchange payload.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
}

// BankAccount is an account as reported by the bank.
type BankAccount struct {
	AccountId string
	SubType   string
	Currency  string
	Nickname  string
}

// FeedTransaction is one transaction from the bank feed.
type FeedTransaction struct {
	TransactionId string
	Amount        decimal.Decimal
	BookingDate   time.Time
	Information   string
	Status        string
}

// ExchangeCodeForTokens returns mock bearer tokens.
func (c *MockClient) ExchangeCodeForTokens(_ string) (*TokenResponse, error) {
	return &TokenResponse{
		AccessToken:  fmt.Sprintf("mock_access_token_%s", uuid.New()),
		RefreshToken: fmt.Sprintf("mock_refresh_token_%s", uuid.New()),
		ExpiresIn:    3600,
		TokenType:    "Bearer",
	}, nil
}

// GetAccountInformation returns the bank's view of the connected accounts.
func (c *MockClient) GetAccountInformation(_ string) ([]BankAccount, error) {
	return []BankAccount{
		{
			AccountId: fmt.Sprintf("acc_%s", uuid.New()),
			SubType:   "CurrentAccount",
			Currency:  "GBP",
			Nickname:  "Main Current Account",
		},
	}, nil
}

var sampleMerchants = []string{
	"TESCO STORES 3297",
	"AMAZON UK RETAIL",
	"SHELL PETROL STATION",
	"STARBUCKS COFFEE",
	"JOHN LEWIS PLC",
	"SAINSBURYS S/MKTS",
	"PAYPAL TRANSFER",
	"UBER TRIP",
	"SPOTIFY PREMIUM",
}

// GetTransactions generates the feed for an external account between two
// dates inclusive.
func (c *MockClient) GetTransactions(externalAccountId string, from, to time.Time) ([]FeedTransaction, error) {
	if externalAccountId == "" {
		return nil, fmt.Errorf("external account id is empty")
	}

	var feed []FeedTransaction
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		feed = append(feed, c.transactionsForDay(externalAccountId, day)...)
	}
	return feed, nil
}

// transactionsForDay derives the day's transactions from a seeded RNG so
// every call agrees on what the bank "said" happened that day.
func (c *MockClient) transactionsForDay(externalAccountId string, day time.Time) []FeedTransaction {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", c.provider.Id, externalAccountId, day.Format("2006-01-02"))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	if rng.Float64() <= 0.7 { // ~30% of days have a transaction
		return nil
	}

	// Uniform in [-150, 50), rounded to cents; mostly spending.
	amount := decimal.NewFromFloat(rng.Float64()*200 - 150).Round(2)
	merchant := sampleMerchants[rng.Intn(len(sampleMerchants))]

	return []FeedTransaction{{
		TransactionId: fmt.Sprintf("tx_%s_%s_%s", c.provider.Id, externalAccountId, day.Format("20060102")),
		Amount:        amount,
		BookingDate:   day,
		Information:   merchant,
		Status:        "Booked",
	}}
}
