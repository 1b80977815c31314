package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

const userColumns = `user_id, first_name, last_name, email, password, phone_number, address,
	creation_date, last_login, status, role`

// UserRepository reads and writes the users table.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *UserRepository) insert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password, phone_number, address,
			creation_date, last_login, status, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING user_id
	`
	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Password,
		nullString(user.PhoneNumber), nullString(user.Address),
		user.CreationDate, user.LastLogin, user.Status, user.Role,
	).Scan(&user.ID)
	if err != nil {
		return storageError("insert user", err)
	}
	return nil
}

// update rewrites every column except user_id and creation_date.
func (r *UserRepository) update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, password = $5,
			phone_number = $6, address = $7, last_login = $8, status = $9, role = $10
		WHERE user_id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Password,
		nullString(user.PhoneNumber), nullString(user.Address),
		user.LastLogin, user.Status, user.Role,
	)
	if err != nil {
		return storageError("update user", err)
	}
	return checkAffected("update user", result)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.findOne(ctx, "select user by id", query, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, "select user by email", query, email)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY user_id`
	return r.findMany(ctx, "select users", query)
}

func (r *UserRepository) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY user_id`
	return r.findMany(ctx, "select users by role", query, role)
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return storageError("delete user", err)
	}
	return checkAffected("delete user", result)
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "user exists by id", `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, id)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "user exists by email", `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, storageError(op, err)
	}
	return exists, nil
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, storageError(op, err)
	}
	return user, nil
}

func (r *UserRepository) findMany(ctx context.Context, op, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(op, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storageError(op, err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(op, err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var phone, address sql.NullString
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
		&phone, &address, &user.CreationDate, &user.LastLogin, &user.Status, &user.Role,
	)
	if err != nil {
		return nil, err
	}
	user.PhoneNumber = stringPtr(phone)
	user.Address = stringPtr(address)
	return &user, nil
}
