package postgres

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/jhoicas/fulfillment-ledger/internal/domain"
)

const baseBackoff = 10 * time.Millisecond

// withRetry ejecuta fn hasta attempts veces mientras falle con un error reintentable.
// Agotados los intentos devuelve ConcurrencyConflictError con la última causa.
func withRetry(ctx context.Context, attempts int, onRetry func(attempt int, err error), fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		last = err
		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return &domain.ConcurrencyConflictError{Attempts: attempts, Cause: last}
}

// backoff exponencial con jitter: 10ms, 20ms, 40ms... más hasta un 50% aleatorio.
func backoff(attempt int) time.Duration {
	d := baseBackoff << (attempt - 1)
	return d + time.Duration(rand.Int64N(int64(d/2)+1))
}
