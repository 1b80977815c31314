package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/events"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/utils"
)

// AccountCommandService writes account state.
type AccountCommandService struct {
	store     repository.Store
	publisher events.Emitter
	logger    *slog.Logger
	settings
}

func NewAccountCommandService(
	store repository.Store,
	publisher events.Emitter,
	logger *slog.Logger,
	opts ...Option,
) *AccountCommandService {
	return &AccountCommandService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		settings:  newSettings(opts),
	}
}

// CreateAccount persists a new account. An empty account number is replaced
// with a freshly generated unused one. If the insert still loses a race on
// the generated number the whole transaction is retried with a new one.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	if err := validateNewAccount(cmd); err != nil {
		return nil, err
	}

	now := s.timestamp()
	draft := models.NewAccount()
	draft.AccountNumber = cmd.AccountNumber
	draft.AccountType = cmd.AccountType
	draft.Balance = cmd.Balance
	draft.CurrencyCode = cmd.CurrencyCode
	draft.InterestRate = cmd.InterestRate
	draft.OverdraftLimit = cmd.OverdraftLimit
	draft.UserID = cmd.UserID
	draft.BranchID = cmd.BranchID
	draft.CreationDate = cmd.CreationDate
	draft.LastUpdated = models.NewTimestamp(now)
	if cmd.Status != "" {
		draft.Status = cmd.Status
	}
	if draft.CreationDate.IsZero() {
		draft.CreationDate = models.NewTimestamp(now)
	}

	generate := cmd.AccountNumber == ""
	for attempt := 1; ; attempt++ {
		account := *draft
		err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
			if generate {
				number, err := s.unusedAccountNumber(ctx, tx.Accounts())
				if err != nil {
					return err
				}
				account.AccountNumber = number
			}
			return tx.Accounts().Save(ctx, &account)
		})
		if err == nil {
			s.logger.Info("account created", "account_id", account.ID, "user_id", account.UserID)
			emit(ctx, s.publisher, s.logger, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
				AccountID:     account.ID,
				AccountNumber: account.AccountNumber,
				UserID:        account.UserID,
				AccountType:   account.AccountType,
			})
			return &account, nil
		}
		if !apperrors.IsUniqueViolation(err, repository.AccountNumberConstraint) {
			return nil, err
		}
		if !generate {
			return nil, apperrors.Duplicate("accountNumber", "Account number already exists")
		}
		if attempt >= s.insertAttempts {
			return nil, fmt.Errorf("failed to allocate account number after %d attempts: %w", attempt, err)
		}
		s.logger.Warn("generated account number taken concurrently, retrying", "attempt", attempt)
	}
}

// CreateAccountForUser creates an account owned by userID regardless of the
// owner carried in cmd.
func (s *AccountCommandService) CreateAccountForUser(ctx context.Context, userID int64, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	cmd.UserID = userID
	return s.CreateAccount(ctx, cmd)
}

// unusedAccountNumber draws numbers until one is not in storage. There is no
// attempt bound; the loop ends when ctx is done.
func (s *AccountCommandService) unusedAccountNumber(ctx context.Context, accounts repository.Accounts) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		number := utils.GenerateAccountNumber(s.digits)
		exists, err := accounts.ExistsByAccountNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		s.logger.Debug("account number collision", "account_number", number)
	}
}

// UpdateAccount merges the patch into the stored row. It returns
// apperrors.ErrNotFound, without writing, when the account does not exist.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	if err := validateAccountPatch(cmd); err != nil {
		return nil, err
	}

	var updated *models.Account
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		account, err := tx.Accounts().FindByID(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		applyAccountPatch(account, cmd)
		account.LastUpdated = models.NewTimestamp(after(account.LastUpdated.Time, s.timestamp()))
		if err := tx.Accounts().Save(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if apperrors.IsUniqueViolation(err, repository.AccountNumberConstraint) {
		return nil, apperrors.Duplicate("accountNumber", "Account number already exists")
	}
	if err != nil {
		return nil, err
	}

	emit(ctx, s.publisher, s.logger, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID:     updated.ID,
		AccountNumber: updated.AccountNumber,
		UserID:        updated.UserID,
		Status:        updated.Status,
	})
	return updated, nil
}

// DeleteAccount reports whether a row was removed. A missing account is not
// an error.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) (bool, error) {
	var deleted *models.Account
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		account, err := tx.Accounts().FindByID(ctx, cmd.AccountID)
		if err != nil {
			return err
		}
		if err := tx.Accounts().Delete(ctx, account); err != nil {
			return err
		}
		deleted = account
		return nil
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Info("account deleted", "account_id", deleted.ID)
	emit(ctx, s.publisher, s.logger, events.AccountEventsStream, events.AccountDeleted, events.AccountDeletedEvent{
		AccountID:     deleted.ID,
		AccountNumber: deleted.AccountNumber,
		UserID:        deleted.UserID,
	})
	return true, nil
}

func validateNewAccount(cmd cqrs.CreateAccountCommand) error {
	switch {
	case strings.TrimSpace(cmd.AccountType) == "":
		return apperrors.Invalid("accountType", "Account type is required")
	case strings.TrimSpace(cmd.CurrencyCode) == "":
		return apperrors.Invalid("currencyCode", "Currency code is required")
	case cmd.UserID <= 0:
		return apperrors.Invalid("userId", "User id is required")
	}
	return nil
}

func validateAccountPatch(cmd cqrs.UpdateAccountCommand) error {
	switch {
	case cmd.AccountNumber.Present() && strings.TrimSpace(cmd.AccountNumber.Value) == "":
		return apperrors.Invalid("accountNumber", "Account number must not be empty")
	case cmd.AccountType.Present() && strings.TrimSpace(cmd.AccountType.Value) == "":
		return apperrors.Invalid("accountType", "Account type must not be empty")
	case cmd.CurrencyCode.Present() && strings.TrimSpace(cmd.CurrencyCode.Value) == "":
		return apperrors.Invalid("currencyCode", "Currency code must not be empty")
	case cmd.UserID.Present() && cmd.UserID.Value <= 0:
		return apperrors.Invalid("userId", "User id must be positive")
	}
	return nil
}

// applyAccountPatch copies every present field. Explicit nulls clear BranchID
// and leave required fields untouched.
func applyAccountPatch(a *models.Account, p cqrs.UpdateAccountCommand) {
	patch(&a.AccountNumber, p.AccountNumber)
	patch(&a.AccountType, p.AccountType)
	patch(&a.Balance, p.Balance)
	patch(&a.CurrencyCode, p.CurrencyCode)
	patch(&a.Status, p.Status)
	patch(&a.InterestRate, p.InterestRate)
	patch(&a.OverdraftLimit, p.OverdraftLimit)
	patch(&a.UserID, p.UserID)
	patchNullable(&a.BranchID, p.BranchID)
}

func patch[T any](dst *T, o models.Optional[T]) {
	if o.Present() {
		*dst = o.Value
	}
}

func patchNullable[T any](dst **T, o models.Optional[T]) {
	switch {
	case o.Cleared():
		*dst = nil
	case o.Present():
		v := o.Value
		*dst = &v
	}
}

// after returns now, or the smallest representable instant after prev when
// the clock has not moved past it.
func after(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
