// Package retry runs idempotent operations under pure exponential backoff,
// using the error classifier to decide whether a failure is worth another
// attempt.
package retry

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/draftmill/draftmill-go/internal/apperr"
)

var retryAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "draftmill_client",
	Name:      "retry_attempts_total",
	Help:      "Retry attempts scheduled after a retryable failure.",
})

const defaultBaseDelay = 1 * time.Second

// Executor configures backoff retry for one logical operation and exposes
// attempt-progress observability. The observable state is informational
// only; it never feeds the stop/continue decision.
type Executor struct {
	// MaxRetries is the number of retries after the first attempt, so
	// total attempts = MaxRetries + 1.
	MaxRetries int

	// BaseDelay is the wait before the first retry. Each subsequent wait
	// doubles: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
	BaseDelay time.Duration

	// OnRetry, when set, fires with the 1-based number of the attempt
	// about to be scheduled, before the backoff wait.
	OnRetry func(attempt int)

	attempt    atomic.Int64
	isRetrying atomic.Bool
}

// Attempt returns the 0-based index of the most recent attempt.
func (e *Executor) Attempt() int { return int(e.attempt.Load()) }

// IsRetrying reports whether a backoff wait or follow-up attempt is in
// progress.
func (e *Executor) IsRetrying() bool { return e.isRetrying.Load() }

// Do runs op under the executor's backoff schedule.
//
// Each failure is classified; non-retryable kinds stop immediately and
// retryable kinds are re-attempted until MaxRetries is exhausted. The
// returned error is either the classified *apperr.Error of the final
// failure, or ctx.Err() when the owning scope was cancelled mid-flight —
// cancellation is a distinct outcome, never reported as an app error.
func Do[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	base := e.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.RandomizationFactor = 0
	b.Multiplier = 2
	// Pure doubling with no cap: push both limits out of reach.
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0

	e.attempt.Store(-1)
	e.isRetrying.Store(false)
	defer e.isRetrying.Store(false)

	wrapped := func() (T, error) {
		e.attempt.Add(1)
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		ae := apperr.Classify(err)
		if !ae.Retryable {
			return res, backoff.Permanent(ae)
		}
		return res, ae
	}

	notify := func(err error, next time.Duration) {
		retryAttemptsTotal.Inc()
		e.isRetrying.Store(true)
		attempt := e.Attempt() + 1
		log.Debug().Err(err).Int("attempt", attempt).Dur("backoff", next).Msg("retrying after failure")
		if e.OnRetry != nil {
			e.OnRetry(attempt)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(e.MaxRetries, 0))), ctx)
	res, err := backoff.RetryNotifyWithData(wrapped, policy, notify)
	if err == nil {
		return res, nil
	}

	// backoff surfaces ctx.Err() when the wait is interrupted by scope
	// cancellation; pass it through untouched.
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		var zero T
		return zero, cerr
	}

	var zero T
	return zero, apperr.Classify(err)
}
