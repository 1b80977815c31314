package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

const accountColumns = `account_id, account_number, account_type, balance, currency_code, status,
	creation_date, last_updated, interest_rate, overdraft_limit, user_id, branch_id`

// AccountRepository reads and writes the account table.
type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		return r.insert(ctx, account)
	}
	return r.update(ctx, account)
}

func (r *AccountRepository) insert(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO account (account_number, account_type, balance, currency_code, status,
			creation_date, last_updated, interest_rate, overdraft_limit, user_id, branch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING account_id
	`
	err := r.db.QueryRowContext(ctx, query,
		account.AccountNumber, account.AccountType, account.Balance, account.CurrencyCode, account.Status,
		account.CreationDate, account.LastUpdated, account.InterestRate, account.OverdraftLimit,
		account.UserID, nullInt64(account.BranchID),
	).Scan(&account.ID)
	if err != nil {
		return storageError("insert account", err)
	}
	return nil
}

// update rewrites every column except account_id and creation_date.
func (r *AccountRepository) update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE account
		SET account_number = $2, account_type = $3, balance = $4, currency_code = $5, status = $6,
			last_updated = $7, interest_rate = $8, overdraft_limit = $9, user_id = $10, branch_id = $11
		WHERE account_id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		account.ID, account.AccountNumber, account.AccountType, account.Balance, account.CurrencyCode,
		account.Status, account.LastUpdated, account.InterestRate, account.OverdraftLimit,
		account.UserID, nullInt64(account.BranchID),
	)
	if err != nil {
		return storageError("update account", err)
	}
	return checkAffected("update account", result)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	return r.findOne(ctx, "select account by id", query, id)
}

func (r *AccountRepository) FindByAccountNumber(ctx context.Context, number string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_number = $1`
	return r.findOne(ctx, "select account by number", query, number)
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account ORDER BY account_id`
	return r.findMany(ctx, "select accounts", query)
}

func (r *AccountRepository) FindByUserID(ctx context.Context, userID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE user_id = $1 ORDER BY account_id`
	return r.findMany(ctx, "select accounts by user", query, userID)
}

func (r *AccountRepository) Delete(ctx context.Context, account *models.Account) error {
	return r.DeleteByID(ctx, account.ID)
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account WHERE account_id = $1`, id)
	if err != nil {
		return storageError("delete account", err)
	}
	return checkAffected("delete account", result)
}

func (r *AccountRepository) ExistsByAccountNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM account WHERE account_number = $1)`
	if err := r.db.QueryRowContext(ctx, query, number).Scan(&exists); err != nil {
		return false, storageError("account exists by number", err)
	}
	return exists, nil
}

func (r *AccountRepository) findOne(ctx context.Context, op, query string, arg any) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	return account, nil
}

func (r *AccountRepository) findMany(ctx context.Context, op, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, storageError(op, err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return accounts, nil
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var branch sql.NullInt64
	err := row.Scan(
		&account.ID, &account.AccountNumber, &account.AccountType, &account.Balance,
		&account.CurrencyCode, &account.Status, &account.CreationDate, &account.LastUpdated,
		&account.InterestRate, &account.OverdraftLimit, &account.UserID, &branch,
	)
	if err != nil {
		return nil, err
	}
	account.BranchID = int64Ptr(branch)
	return &account, nil
}
