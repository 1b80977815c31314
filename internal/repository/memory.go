package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

var errMemoryDuplicate = errors.New("duplicate key value violates unique constraint")

// MemoryStore is an in-process Store with the same identifier and uniqueness
// rules as the PostgreSQL schema. Used for tests and STORAGE_DRIVER=memory.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	users         map[int64]models.User
	accounts      map[int64]models.Account
	nextUserID    int64
	nextAccountID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memoryState{
		users:    map[int64]models.User{},
		accounts: map[int64]models.Account{},
	}}
}

func (s *MemoryStore) Users() Users       { return memoryUsers{view: s.autoCommit()} }
func (s *MemoryStore) Accounts() Accounts { return memoryAccounts{view: s.autoCommit()} }

func (s *MemoryStore) Ping(context.Context) error { return nil }

// WithinTx serialises transactions. fn works on a copy of the data that
// replaces the live state only when fn succeeds.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("begin transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(memoryTx{view: func(f func(*memoryState) error) error { return f(working) }}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *MemoryStore) autoCommit() stateView {
	return func(f func(*memoryState) error) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return f(s.state)
	}
}

// stateView runs f against either the live state (under the store lock) or
// a transaction's working copy.
type stateView func(f func(*memoryState) error) error

type memoryTx struct {
	view stateView
}

func (t memoryTx) Users() Users       { return memoryUsers{view: t.view} }
func (t memoryTx) Accounts() Accounts { return memoryAccounts{view: t.view} }

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		users:         make(map[int64]models.User, len(st.users)),
		accounts:      make(map[int64]models.Account, len(st.accounts)),
		nextUserID:    st.nextUserID,
		nextAccountID: st.nextAccountID,
	}
	for id, u := range st.users {
		c.users[id] = u
	}
	for id, a := range st.accounts {
		c.accounts[id] = a
	}
	return c
}

// ---------- users ----------

type memoryUsers struct {
	view stateView
}

func (m memoryUsers) Save(ctx context.Context, user *models.User) error {
	return m.view(func(st *memoryState) error {
		for id, existing := range st.users {
			if id != user.ID && existing.Email == user.Email {
				return apperrors.NewUniqueViolation("insert user", UsersEmailConstraint, errMemoryDuplicate)
			}
		}
		if user.ID == 0 {
			st.nextUserID++
			user.ID = st.nextUserID
			st.users[user.ID] = cloneUser(*user)
			return nil
		}
		current, ok := st.users[user.ID]
		if !ok {
			return apperrors.ErrNotFound
		}
		updated := cloneUser(*user)
		updated.CreationDate = current.CreationDate
		st.users[user.ID] = updated
		return nil
	})
}

func (m memoryUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := m.view(func(st *memoryState) error {
		u, ok := st.users[id]
		if !ok {
			return apperrors.ErrNotFound
		}
		c := cloneUser(u)
		out = &c
		return nil
	})
	return out, err
}

func (m memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := m.view(func(st *memoryState) error {
		for _, u := range st.users {
			if u.Email == email {
				c := cloneUser(u)
				out = &c
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (m memoryUsers) FindAll(ctx context.Context) ([]models.User, error) {
	return m.filter(func(models.User) bool { return true })
}

func (m memoryUsers) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	return m.filter(func(u models.User) bool { return u.Role == role })
}

func (m memoryUsers) filter(keep func(models.User) bool) ([]models.User, error) {
	users := []models.User{}
	err := m.view(func(st *memoryState) error {
		for _, u := range st.users {
			if keep(u) {
				users = append(users, cloneUser(u))
			}
		}
		return nil
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, err
}

func (m memoryUsers) DeleteByID(ctx context.Context, id int64) error {
	return m.view(func(st *memoryState) error {
		if _, ok := st.users[id]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func (m memoryUsers) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.view(func(st *memoryState) error {
		_, exists = st.users[id]
		return nil
	})
	return exists, err
}

func (m memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ---------- accounts ----------

type memoryAccounts struct {
	view stateView
}

func (m memoryAccounts) Save(ctx context.Context, account *models.Account) error {
	return m.view(func(st *memoryState) error {
		for id, existing := range st.accounts {
			if id != account.ID && existing.AccountNumber == account.AccountNumber {
				return apperrors.NewUniqueViolation("insert account", AccountNumberConstraint, errMemoryDuplicate)
			}
		}
		if account.ID == 0 {
			st.nextAccountID++
			account.ID = st.nextAccountID
			st.accounts[account.ID] = cloneAccount(*account)
			return nil
		}
		current, ok := st.accounts[account.ID]
		if !ok {
			return apperrors.ErrNotFound
		}
		updated := cloneAccount(*account)
		updated.CreationDate = current.CreationDate
		st.accounts[account.ID] = updated
		return nil
	})
}

func (m memoryAccounts) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	var out *models.Account
	err := m.view(func(st *memoryState) error {
		a, ok := st.accounts[id]
		if !ok {
			return apperrors.ErrNotFound
		}
		c := cloneAccount(a)
		out = &c
		return nil
	})
	return out, err
}

func (m memoryAccounts) FindByAccountNumber(ctx context.Context, number string) (*models.Account, error) {
	var out *models.Account
	err := m.view(func(st *memoryState) error {
		for _, a := range st.accounts {
			if a.AccountNumber == number {
				c := cloneAccount(a)
				out = &c
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return out, err
}

func (m memoryAccounts) FindAll(ctx context.Context) ([]models.Account, error) {
	return m.filter(func(models.Account) bool { return true })
}

func (m memoryAccounts) FindByUserID(ctx context.Context, userID int64) ([]models.Account, error) {
	return m.filter(func(a models.Account) bool { return a.UserID == userID })
}

func (m memoryAccounts) filter(keep func(models.Account) bool) ([]models.Account, error) {
	accounts := []models.Account{}
	err := m.view(func(st *memoryState) error {
		for _, a := range st.accounts {
			if keep(a) {
				accounts = append(accounts, cloneAccount(a))
			}
		}
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, err
}

func (m memoryAccounts) Delete(ctx context.Context, account *models.Account) error {
	return m.DeleteByID(ctx, account.ID)
}

func (m memoryAccounts) DeleteByID(ctx context.Context, id int64) error {
	return m.view(func(st *memoryState) error {
		if _, ok := st.accounts[id]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.accounts, id)
		return nil
	})
}

func (m memoryAccounts) ExistsByAccountNumber(ctx context.Context, number string) (bool, error) {
	_, err := m.FindByAccountNumber(ctx, number)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func cloneUser(u models.User) models.User {
	if u.PhoneNumber != nil {
		p := *u.PhoneNumber
		u.PhoneNumber = &p
	}
	if u.Address != nil {
		a := *u.Address
		u.Address = &a
	}
	return u
}

func cloneAccount(a models.Account) models.Account {
	if a.BranchID != nil {
		b := *a.BranchID
		a.BranchID = &b
	}
	return a
}
