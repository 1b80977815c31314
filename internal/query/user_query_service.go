package query

import (
	"context"
	"log/slog"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

type UserQueryService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewUserQueryService(store repository.Store, logger *slog.Logger) *UserQueryService {
	return &UserQueryService{store: store, logger: logger}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.User, error) {
	return s.store.Users().FindByID(ctx, q.UserID)
}

func (s *UserQueryService) GetUserByEmail(ctx context.Context, q cqrs.GetUserByEmailQuery) (*models.User, error) {
	return s.store.Users().FindByEmail(ctx, q.Email)
}

func (s *UserQueryService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().FindAll(ctx)
}

func (s *UserQueryService) ListUsersByRole(ctx context.Context, q cqrs.ListUsersByRoleQuery) ([]models.User, error) {
	return s.store.Users().FindByRole(ctx, q.Role)
}

// ExistsByID answers false when storage cannot be reached.
func (s *UserQueryService) ExistsByID(ctx context.Context, q cqrs.GetUserQuery) bool {
	exists, err := s.store.Users().ExistsByID(ctx, q.UserID)
	if err != nil {
		s.logger.Error("user existence check failed", "user_id", q.UserID, "error", err)
		return false
	}
	return exists
}
