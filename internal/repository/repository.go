// Package repository is the persistence gateway for users and accounts.
//
// Every method takes a context and either runs as its own auto-committed
// statement (through a Store) or inside an explicit transaction handle
// obtained from Store.WithinTx. Single-row lookups return
// apperrors.ErrNotFound when nothing matches; list lookups return an empty
// slice. Driver failures are wrapped in *apperrors.StorageError.
package repository

import (
	"context"

	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

// Names of the unique constraints declared in schema.sql.
const (
	UsersEmailConstraint    = "users_email_key"
	AccountNumberConstraint = "account_account_number_key"
)

// Users is the row gateway for the users table.
type Users interface {
	// Save inserts when user.ID is 0 (and assigns the ID), otherwise updates
	// every mutable column of the matching row.
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role string) ([]models.User, error)
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Accounts is the row gateway for the account table.
type Accounts interface {
	// Save inserts when account.ID is 0 (and assigns the ID), otherwise
	// updates every mutable column of the matching row.
	Save(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindAll(ctx context.Context) ([]models.Account, error)
	FindByUserID(ctx context.Context, userID int64) ([]models.Account, error)
	FindByAccountNumber(ctx context.Context, number string) (*models.Account, error)
	Delete(ctx context.Context, account *models.Account) error
	DeleteByID(ctx context.Context, id int64) error
	ExistsByAccountNumber(ctx context.Context, number string) (bool, error)
}

// Tx scopes repositories to one unit of work.
type Tx interface {
	Users() Users
	Accounts() Accounts
}

// Store hands out auto-commit repositories and transaction handles.
type Store interface {
	Tx
	// WithinTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise, including on panic.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}
