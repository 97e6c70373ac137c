package session

import (
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withBusyRetry wraps a database operation with short exponential backoff.
// Retries only on transient SQLite contention (SQLITE_BUSY, "database is
// locked"); everything else fails immediately.
//
// Error detection relies on modernc.org/sqlite error message strings.
// If modernc changes its error format in a major version bump, update
// the string matchers below. Current baseline: modernc.org/sqlite v1.45+.
func withBusyRetry(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if isBusyError(err) {
			return err // will be retried
		}
		return backoff.Permanent(err)
	}, b)
}

func isBusyError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}
