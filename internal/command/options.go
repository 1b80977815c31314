// Package command holds the write side of the user and account services.
// Every operation runs its read-check-write sequence inside one
// repository transaction and publishes a lifecycle event after commit.
package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/ilhamAmgoun200/E-BankingApp/pkg/events"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/utils"
)

const defaultInsertAttempts = 3

type settings struct {
	now            func() time.Time
	digits         utils.DigitSource
	insertAttempts int
	bcryptCost     int
}

type Option func(*settings)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithDigitSource replaces the crypto/rand source used for account numbers.
func WithDigitSource(src utils.DigitSource) Option {
	return func(s *settings) { s.digits = src }
}

// WithInsertAttempts bounds how often an account insert is retried after a
// concurrent creator took the generated number.
func WithInsertAttempts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.insertAttempts = n
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *settings) { s.bcryptCost = cost }
}

func newSettings(opts []Option) settings {
	s := settings{
		now:            time.Now,
		digits:         utils.CryptoDigits{},
		insertAttempts: defaultInsertAttempts,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// timestamp returns the clock reading at the precision PostgreSQL keeps.
func (s settings) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// emit publishes an event and only logs failures.
func emit(ctx context.Context, publisher events.Emitter, logger *slog.Logger, stream, eventType string, data any) {
	if err := publisher.Publish(ctx, stream, eventType, data); err != nil {
		logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}
