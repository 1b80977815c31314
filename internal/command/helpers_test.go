package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ilhamAmgoun200/E-BankingApp/internal/repository"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/apperrors"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

var testNow = time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- event recorder ----

type recordingEmitter struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (r *recordingEmitter) Publish(_ context.Context, _, eventType string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, eventType)
	return r.err
}

func (r *recordingEmitter) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

// ---- digit sources ----

// scriptedDigits replays digits in order and wraps around.
type scriptedDigits struct {
	digits string
	pos    int
}

func (s *scriptedDigits) IntN(int) int {
	d := int(s.digits[s.pos%len(s.digits)] - '0')
	s.pos++
	return d
}

// cancellingDigits always yields zeros and cancels the context after a number of draws.
type cancellingDigits struct {
	cancel func()
	after  int
	calls  int
}

func (c *cancellingDigits) IntN(int) int {
	c.calls++
	if c.calls == c.after {
		c.cancel()
	}
	return 0
}

// ---- racing store ----

// racingStore fails the next account inserts with a unique violation, as if
// another writer committed the same number between the check and the insert.
type racingStore struct {
	*repository.MemoryStore
	mu        sync.Mutex
	conflicts int
}

func (r *racingStore) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return r.MemoryStore.WithinTx(ctx, func(tx repository.Tx) error {
		return fn(racingTx{Tx: tx, store: r})
	})
}

func (r *racingStore) takeConflict() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts == 0 {
		return false
	}
	r.conflicts--
	return true
}

type racingTx struct {
	repository.Tx
	store *racingStore
}

func (t racingTx) Accounts() repository.Accounts {
	return racingAccounts{Accounts: t.Tx.Accounts(), store: t.store}
}

type racingAccounts struct {
	repository.Accounts
	store *racingStore
}

func (a racingAccounts) Save(ctx context.Context, account *models.Account) error {
	if account.ID == 0 && a.store.takeConflict() {
		return apperrors.NewUniqueViolation("insert account", repository.AccountNumberConstraint, errors.New("duplicate key"))
	}
	return a.Accounts.Save(ctx, account)
}

func ptr[T any](v T) *T { return &v }
