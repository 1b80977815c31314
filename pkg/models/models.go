package models

import "github.com/shopspring/decimal"

const (
	StatusActive = "ACTIVE"
	RoleClient   = "CLIENT"
)

type User struct {
	ID           int64     `json:"userId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	PhoneNumber  *string   `json:"phoneNumber"`
	Address      *string   `json:"address"`
	CreationDate Timestamp `json:"creationDate"`
	LastLogin    Timestamp `json:"lastLogin"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
}

// Account belongs to exactly one user. Deleting the user leaves its accounts in place.
type Account struct {
	ID             int64           `json:"accountId"`
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	Balance        decimal.Decimal `json:"balance"`
	CurrencyCode   string          `json:"currencyCode"`
	Status         string          `json:"status"`
	CreationDate   Timestamp       `json:"creationDate"`
	LastUpdated    Timestamp       `json:"lastUpdated"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	OverdraftLimit decimal.Decimal `json:"overdraftLimit"`
	UserID         int64           `json:"userId"`
	BranchID       *int64          `json:"branchId"`
}

// NewAccount returns an account carrying the construction defaults: ACTIVE
// status and zero balance, interest rate and overdraft limit.
func NewAccount() *Account {
	return &Account{
		Status:         StatusActive,
		Balance:        decimal.Zero,
		InterestRate:   decimal.Zero,
		OverdraftLimit: decimal.Zero,
	}
}
