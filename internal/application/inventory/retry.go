package inventory

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RetryPolicy reintentos acotados de una unidad de trabajo ante domain.ErrConcurrencyConflict.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy 3 reintentos con backoff exponencial entre 20ms y 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 20 * time.Millisecond, MaxInterval: 500 * time.Millisecond}
}

// runInTx ejecuta fn en una transacción y la repite completa mientras falle por conflicto de concurrencia,
// hasta agotar la política. Cualquier otro error se devuelve de inmediato.
func runInTx(ctx context.Context, runner TxRunner, policy RetryPolicy, log *logger.Logger, op string, fn func(uow repository.UnitOfWork) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.MaxElapsedTime = 0

	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := runner.Run(ctx, fn)
		if err == nil || domain.IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, bo, func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("wait", wait).Msg("conflicto de concurrencia, reintentando")
	})
}
