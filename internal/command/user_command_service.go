package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/events"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/utils"
)

const emailExists = "Email already exists"

// UserCommandService writes user state.
type UserCommandService struct {
	store     repository.Store
	publisher events.Emitter
	logger    *slog.Logger
	settings
}

func NewUserCommandService(
	store repository.Store,
	publisher events.Emitter,
	logger *slog.Logger,
	opts ...Option,
) *UserCommandService {
	return &UserCommandService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		settings:  newSettings(opts),
	}
}

// CreateUser stores a new user with a hashed password. An email that is
// already taken yields a duplicate ValidationError and nothing is written.
func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.User, error) {
	if err := validateNewUser(cmd); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(cmd.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Email:        cmd.Email,
		Password:     hashed,
		PhoneNumber:  cmd.PhoneNumber,
		Address:      cmd.Address,
		CreationDate: models.NewTimestamp(s.timestamp()),
		Status:       cmd.Status,
		Role:         cmd.Role,
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}

	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		exists, err := tx.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Duplicate("email", emailExists)
		}
		return tx.Users().Save(ctx, user)
	})
	if apperrors.IsUniqueViolation(err, repository.UsersEmailConstraint) {
		return nil, apperrors.Duplicate("email", emailExists)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	emit(ctx, s.publisher, s.logger, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	return user, nil
}

// UpdateUser merges the patch into the stored user. lastLogin and
// creationDate are never touched.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.User, error) {
	if err := validateUserPatch(cmd); err != nil {
		return nil, err
	}

	var hashed string
	if cmd.Password.Present() {
		var err error
		if hashed, err = utils.HashPassword(cmd.Password.Value, s.bcryptCost); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	var updated *models.User
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		user, err := tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if cmd.Email.Present() && cmd.Email.Value != user.Email {
			exists, err := tx.Users().ExistsByEmail(ctx, cmd.Email.Value)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.Duplicate("email", emailExists)
			}
		}

		patch(&user.FirstName, cmd.FirstName)
		patch(&user.LastName, cmd.LastName)
		patch(&user.Email, cmd.Email)
		patchNullable(&user.PhoneNumber, cmd.PhoneNumber)
		patchNullable(&user.Address, cmd.Address)
		patch(&user.Status, cmd.Status)
		patch(&user.Role, cmd.Role)
		if hashed != "" {
			user.Password = hashed
		}

		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if apperrors.IsUniqueViolation(err, repository.UsersEmailConstraint) {
		return nil, apperrors.Duplicate("email", emailExists)
	}
	if err != nil {
		return nil, err
	}

	emit(ctx, s.publisher, s.logger, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID: updated.ID,
		Email:  updated.Email,
		Status: updated.Status,
	})
	return updated, nil
}

// DeleteUser reports whether a row was removed. The user's accounts are kept.
func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) (bool, error) {
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.Users().DeleteByID(ctx, cmd.UserID)
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Info("user deleted", "user_id", cmd.UserID)
	emit(ctx, s.publisher, s.logger, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: cmd.UserID,
	})
	return true, nil
}

// UpdateLastLogin stamps lastLogin with the current time.
func (s *UserCommandService) UpdateLastLogin(ctx context.Context, cmd cqrs.RecordLoginCommand) (*models.User, error) {
	var updated *models.User
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		user, err := tx.Users().FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		user.LastLogin = models.NewTimestamp(s.timestamp())
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	emit(ctx, s.publisher, s.logger, events.UserEventsStream, events.UserLoggedIn, events.UserLoggedInEvent{
		UserID:    updated.ID,
		LastLogin: updated.LastLogin.Time,
	})
	return updated, nil
}

func validateNewUser(cmd cqrs.CreateUserCommand) error {
	switch {
	case strings.TrimSpace(cmd.FirstName) == "":
		return apperrors.Invalid("firstName", "First name is required")
	case strings.TrimSpace(cmd.LastName) == "":
		return apperrors.Invalid("lastName", "Last name is required")
	case strings.TrimSpace(cmd.Email) == "":
		return apperrors.Invalid("email", "Email is required")
	case cmd.Password == "":
		return apperrors.Invalid("password", "Password is required")
	}
	return nil
}

func validateUserPatch(cmd cqrs.UpdateUserCommand) error {
	switch {
	case cmd.FirstName.Present() && strings.TrimSpace(cmd.FirstName.Value) == "":
		return apperrors.Invalid("firstName", "First name must not be empty")
	case cmd.LastName.Present() && strings.TrimSpace(cmd.LastName.Value) == "":
		return apperrors.Invalid("lastName", "Last name must not be empty")
	case cmd.Email.Present() && strings.TrimSpace(cmd.Email.Value) == "":
		return apperrors.Invalid("email", "Email must not be empty")
	case cmd.Password.Present() && cmd.Password.Value == "":
		return apperrors.Invalid("password", "Password must not be empty")
	}
	return nil
}
