package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/stay-service/pkg/logger"
	"gorm.io/gorm"
)

// ErrTxUnavailable is returned once a transaction kept failing for transient
// reasons and the retry budget is spent.
var ErrTxUnavailable = errors.New("storage temporarily unavailable")

const defaultTxBackoff = 25 * time.Millisecond

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
}

func NewTransactor(db *gorm.DB, maxAttempts int) Transactor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &gormTransactor{db: db, maxAttempts: maxAttempts, backoff: defaultTxBackoff}
}

// WithinTransaction runs fn in a single transaction. The whole closure is
// re-run after a serialization failure or deadlock; any other error is
// returned as is.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return withRetry(ctx, t.maxAttempts, t.backoff, func() error {
		return t.db.WithContext(ctx).Transaction(fn)
	})
}

func withRetry(ctx context.Context, maxAttempts int, backoff time.Duration, run func() error) error {
	for attempt := 1; ; attempt++ {
		err := run()
		if !IsRetryable(err) {
			return err
		}
		if attempt >= maxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrTxUnavailable, attempt, err)
		}

		logger.Log.Debugf("transaction attempt %d failed transiently: %v", attempt, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
}
