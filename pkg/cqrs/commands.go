package cqrs

import (
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
	"github.com/shopspring/decimal"
)

type CreateUserCommand struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber *string
	Address     *string
	Status      string
	Role        string
}

// UpdateUserCommand is a field-level patch. Absent fields are left untouched;
// an explicit null clears PhoneNumber and Address and is ignored elsewhere.
type UpdateUserCommand struct {
	UserID      int64
	FirstName   models.Optional[string]
	LastName    models.Optional[string]
	Email       models.Optional[string]
	Password    models.Optional[string]
	PhoneNumber models.Optional[string]
	Address     models.Optional[string]
	Status      models.Optional[string]
	Role        models.Optional[string]
}

type DeleteUserCommand struct {
	UserID int64
}

type RecordLoginCommand struct {
	UserID int64
}

// CreateAccountCommand carries an account draft. An empty AccountNumber asks
// for a generated one and a zero CreationDate is replaced with the current time.
type CreateAccountCommand struct {
	AccountNumber  string
	AccountType    string
	Balance        decimal.Decimal
	CurrencyCode   string
	Status         string
	CreationDate   models.Timestamp
	InterestRate   decimal.Decimal
	OverdraftLimit decimal.Decimal
	UserID         int64
	BranchID       *int64
}

// UpdateAccountCommand is a field-level patch. AccountID and CreationDate
// are never patched; an explicit null only clears BranchID.
type UpdateAccountCommand struct {
	AccountID      int64
	AccountNumber  models.Optional[string]
	AccountType    models.Optional[string]
	Balance        models.Optional[decimal.Decimal]
	CurrencyCode   models.Optional[string]
	Status         models.Optional[string]
	InterestRate   models.Optional[decimal.Decimal]
	OverdraftLimit models.Optional[decimal.Decimal]
	UserID         models.Optional[int64]
	BranchID       models.Optional[int64]
}

type DeleteAccountCommand struct {
	AccountID int64
}
