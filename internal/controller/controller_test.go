package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftmill/draftmill-go/internal/api"
	"github.com/draftmill/draftmill-go/internal/apperr"
)

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) Invalidate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func authErr() error {
	return &api.StatusError{StatusCode: 401, Status: "401 Unauthorized"}
}

func TestHandleError_StoresClassifiedError(t *testing.T) {
	c := New()

	ae := c.HandleError(&api.StatusError{StatusCode: 500, Status: "500"})
	require.NotNil(t, ae)
	assert.Equal(t, apperr.KindServerError, ae.Kind)
	assert.True(t, c.IsError())
	assert.Same(t, ae, c.Err())
}

func TestHandleError_ReauthInvalidatesOnce(t *testing.T) {
	inv := &fakeInvalidator{}
	c := New(WithInvalidator(inv))

	c.HandleError(authErr())
	assert.Equal(t, 1, inv.count())

	// Same error shape again: state updated, side effect not re-triggered.
	c.HandleError(authErr())
	assert.Equal(t, 1, inv.count())
	assert.True(t, c.IsError())
}

func TestHandleError_ReauthDisabled(t *testing.T) {
	inv := &fakeInvalidator{}
	c := New(WithInvalidator(inv), WithRedirectOnAuth(false))

	c.HandleError(authErr())
	assert.Equal(t, 0, inv.count())
	assert.True(t, c.IsError())
}

func TestHandleError_UpgradeCallback(t *testing.T) {
	var got *apperr.Error
	c := New(WithUpgradeCallback(func(ae *apperr.Error) { got = ae }))

	c.HandleError(&api.StatusError{StatusCode: 402, Status: "402"})
	require.NotNil(t, got)
	assert.Equal(t, apperr.KindUpgradeRequired, got.Kind)
}

func TestClearError_IsSilent(t *testing.T) {
	inv := &fakeInvalidator{}
	var upgrades int
	c := New(
		WithInvalidator(inv),
		WithUpgradeCallback(func(*apperr.Error) { upgrades++ }),
	)

	c.HandleError(authErr())
	require.Equal(t, 1, inv.count())

	c.ClearError()
	assert.False(t, c.IsError())
	assert.Nil(t, c.Err())
	assert.Equal(t, 1, inv.count())
	assert.Equal(t, 0, upgrades)

	// A fresh auth failure after clearing triggers invalidation again.
	c.HandleError(authErr())
	assert.Equal(t, 2, inv.count())
}

func TestRun_Success(t *testing.T) {
	c := New()

	res, ok := Run(context.Background(), c, func(ctx context.Context) (string, error) {
		assert.True(t, c.IsLoading())
		return "done", nil
	})

	assert.True(t, ok)
	assert.Equal(t, "done", res)
	assert.False(t, c.IsLoading())
	assert.False(t, c.IsError())
}

func TestRun_FailureAbsorbed(t *testing.T) {
	c := New()

	res, ok := Run(context.Background(), c, func(ctx context.Context) (string, error) {
		return "ignored", errors.New("boom")
	})

	assert.False(t, ok)
	assert.Empty(t, res)
	assert.False(t, c.IsLoading())
	require.True(t, c.IsError())
	assert.Equal(t, apperr.KindUnknown, c.Err().Kind)
}

func TestRun_LoadingFalseOnEveryExitPath(t *testing.T) {
	c := New()

	// Success path.
	_, _ = Run(context.Background(), c, func(ctx context.Context) (int, error) { return 1, nil })
	assert.False(t, c.IsLoading())

	// Failure path.
	_, _ = Run(context.Background(), c, func(ctx context.Context) (int, error) { return 0, errors.New("x") })
	assert.False(t, c.IsLoading())

	// Panic path: loading still resets before the panic propagates.
	func() {
		defer func() { _ = recover() }()
		_, _ = Run(context.Background(), c, func(ctx context.Context) (int, error) { panic("unexpected") })
	}()
	assert.False(t, c.IsLoading())
}

func TestRun_ClearsPreviousError(t *testing.T) {
	c := New()
	c.HandleError(errors.New("old failure"))
	require.True(t, c.IsError())

	_, ok := Run(context.Background(), c, func(ctx context.Context) (bool, error) {
		// Previous error is gone before fn runs.
		assert.False(t, c.IsError())
		return true, nil
	})
	assert.True(t, ok)
	assert.False(t, c.IsError())
}

func TestRun_RejectsOverlap(t *testing.T) {
	c := New()
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	firstDone := make(chan struct{})

	go func() {
		defer close(firstDone)
		res, ok := Run(context.Background(), c, func(ctx context.Context) (string, error) {
			close(firstStarted)
			<-release
			return "first", nil
		})
		assert.True(t, ok)
		assert.Equal(t, "first", res)
	}()

	<-firstStarted
	// Second call while the first is pending: rejected, in-flight state untouched.
	res, ok := Run(context.Background(), c, func(ctx context.Context) (string, error) {
		t.Error("overlapping fn must not run")
		return "", nil
	})
	assert.False(t, ok)
	assert.Empty(t, res)
	assert.True(t, c.IsLoading())

	close(release)
	<-firstDone
	assert.False(t, c.IsLoading())
}

func TestRun_CancellationRecordsNoError(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())

	_, ok := Run(ctx, c, func(ctx context.Context) (string, error) {
		cancel()
		return "", ctx.Err()
	})

	assert.False(t, ok)
	// A discarded scope is not an error outcome.
	assert.False(t, c.IsError())
	assert.False(t, c.IsLoading())
}

func TestRun_SequentialCallsAllowed(t *testing.T) {
	c := New()

	for i := 0; i < 3; i++ {
		_, ok := Run(context.Background(), c, func(ctx context.Context) (int, error) { return i, nil })
		assert.True(t, ok)
	}
}

func TestRun_SlowCancellationStillResetsLoading(t *testing.T) {
	c := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := Run(ctx, c, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	assert.False(t, ok)
	assert.False(t, c.IsLoading())
	assert.False(t, c.IsError())
}
