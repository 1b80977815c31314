// Package query holds the read side of the user and account services.
// Reads go straight to the auto-commit store; nothing is cached.
package query

import (
	"context"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

type AccountQueryService struct {
	store repository.Store
}

func NewAccountQueryService(store repository.Store) *AccountQueryService {
	return &AccountQueryService{store: store}
}

// GetAccount returns apperrors.ErrNotFound for an unknown id.
func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	return s.store.Accounts().FindByID(ctx, q.AccountID)
}

func (s *AccountQueryService) GetAccountByNumber(ctx context.Context, q cqrs.GetAccountByNumberQuery) (*models.Account, error) {
	return s.store.Accounts().FindByAccountNumber(ctx, q.AccountNumber)
}

func (s *AccountQueryService) ListAllAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.Accounts().FindAll(ctx)
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.Account, error) {
	return s.store.Accounts().FindByUserID(ctx, q.UserID)
}

func (s *AccountQueryService) IsAccountNumberExists(ctx context.Context, q cqrs.GetAccountByNumberQuery) (bool, error) {
	return s.store.Accounts().ExistsByAccountNumber(ctx, q.AccountNumber)
}
