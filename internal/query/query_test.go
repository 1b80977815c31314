package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	for _, u := range []*models.User{
		{FirstName: "Ada", Email: "ada@example.com", Role: "ADMIN"},
		{FirstName: "Bob", Email: "bob@example.com", Role: models.RoleClient},
		{FirstName: "Cy", Email: "cy@example.com", Role: models.RoleClient},
	} {
		if err := store.Users().Save(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	for i, number := range []string{"0000000001", "0000000002", "0000000003"} {
		a := models.NewAccount()
		a.AccountNumber = number
		a.UserID = int64(i%2 + 1)
		if err := store.Accounts().Save(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestAccountQueries(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountQueryService(seededStore(t))

	account, err := svc.GetAccount(ctx, cqrs.GetAccountQuery{AccountID: 2})
	if err != nil || account.AccountNumber != "0000000002" {
		t.Fatalf("GetAccount: %v %v", account, err)
	}
	if _, err := svc.GetAccount(ctx, cqrs.GetAccountQuery{AccountID: 99}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	byNumber, err := svc.GetAccountByNumber(ctx, cqrs.GetAccountByNumberQuery{AccountNumber: "0000000003"})
	if err != nil || byNumber.ID != 3 {
		t.Errorf("GetAccountByNumber: %v %v", byNumber, err)
	}

	all, _ := svc.ListAllAccounts(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 accounts, got %d", len(all))
	}
	owned, _ := svc.ListAccounts(ctx, cqrs.ListAccountsQuery{UserID: 1})
	if len(owned) != 2 || owned[0].ID != 1 || owned[1].ID != 3 {
		t.Errorf("unexpected accounts for user 1: %v", owned)
	}
	none, _ := svc.ListAccounts(ctx, cqrs.ListAccountsQuery{UserID: 42})
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty slice, got %#v", none)
	}

	tests := []struct {
		number string
		want   bool
	}{
		{number: "0000000001", want: true},
		{number: "9999999999", want: false},
	}
	for _, tt := range tests {
		got, err := svc.IsAccountNumberExists(ctx, cqrs.GetAccountByNumberQuery{AccountNumber: tt.number})
		if err != nil || got != tt.want {
			t.Errorf("IsAccountNumberExists(%s) = %v, %v; want %v", tt.number, got, err, tt.want)
		}
	}
}

func TestUserQueries(t *testing.T) {
	ctx := context.Background()
	svc := NewUserQueryService(seededStore(t), discardLogger())

	user, err := svc.GetUser(ctx, cqrs.GetUserQuery{UserID: 1})
	if err != nil || user.Email != "ada@example.com" {
		t.Fatalf("GetUser: %v %v", user, err)
	}
	byEmail, err := svc.GetUserByEmail(ctx, cqrs.GetUserByEmailQuery{Email: "bob@example.com"})
	if err != nil || byEmail.ID != 2 {
		t.Errorf("GetUserByEmail: %v %v", byEmail, err)
	}
	if _, err := svc.GetUserByEmail(ctx, cqrs.GetUserByEmailQuery{Email: "nobody@example.com"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	all, _ := svc.ListUsers(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 users, got %d", len(all))
	}
	clients, _ := svc.ListUsersByRole(ctx, cqrs.ListUsersByRoleQuery{Role: models.RoleClient})
	if len(clients) != 2 {
		t.Errorf("expected 2 clients, got %d", len(clients))
	}
	if !svc.ExistsByID(ctx, cqrs.GetUserQuery{UserID: 3}) {
		t.Error("expected user 3 to exist")
	}
	if svc.ExistsByID(ctx, cqrs.GetUserQuery{UserID: 30}) {
		t.Error("expected user 30 to be absent")
	}
}

type brokenStore struct {
	repository.Store
}

func (brokenStore) Users() repository.Users { return brokenUsers{} }

type brokenUsers struct {
	repository.Users
}

func (brokenUsers) ExistsByID(context.Context, int64) (bool, error) {
	return false, apperrors.NewStorageError("user exists by id", errors.New("connection refused"))
}

func TestExistsByID_FailsClosed(t *testing.T) {
	svc := NewUserQueryService(brokenStore{}, discardLogger())
	if svc.ExistsByID(context.Background(), cqrs.GetUserQuery{UserID: 1}) {
		t.Error("expected false when storage fails")
	}
}
