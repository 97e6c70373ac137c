// Package controller owns the error/loading state of one interaction scope
// and orchestrates the side effects of classified failures: session
// invalidation on auth errors and the upgrade callback on plan limits.
package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/draftmill/draftmill-go/internal/apperr"
)

// Invalidator is the session-clearing reaction to an authentication
// failure. Satisfied by *session.Invalidator.
type Invalidator interface {
	Invalidate() error
}

// Controller holds the current error and loading flag for one interaction
// scope. Construct one per scope; instances are never shared between
// scopes. The mutex exists because overlapping Run calls on one instance
// are a caller mistake the controller still has to survive.
type Controller struct {
	mu       sync.Mutex
	err      *apperr.Error
	loading  bool
	inflight bool
	// fired marks that the stored error's side effect already ran, so a
	// repeat HandleError with the same kind does not re-trigger it.
	fired bool

	invalidator    Invalidator
	onUpgrade      func(*apperr.Error)
	redirectOnAuth bool
}

// Option configures a Controller during construction.
type Option func(*Controller)

// WithInvalidator injects the session invalidator and enables the
// reauth redirect.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Controller) {
		c.invalidator = inv
		c.redirectOnAuth = true
	}
}

// WithRedirectOnAuth toggles the reauth redirect without removing the
// invalidator.
func WithRedirectOnAuth(enabled bool) Option {
	return func(c *Controller) { c.redirectOnAuth = enabled }
}

// WithUpgradeCallback sets the callback invoked on plan-limit failures.
func WithUpgradeCallback(fn func(*apperr.Error)) Option {
	return func(c *Controller) { c.onUpgrade = fn }
}

// New constructs a Controller for one interaction scope.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleError classifies raw, stores it as the current error, and performs
// the policy side effects at most once per stored error. Returns the
// classified error.
func (c *Controller) HandleError(raw error) *apperr.Error {
	ae := apperr.Classify(raw)

	c.mu.Lock()
	repeat := c.fired && c.err != nil && c.err.Kind == ae.Kind
	c.err = ae
	if !repeat {
		c.fired = true
	}
	c.mu.Unlock()

	if repeat {
		return ae
	}

	switch {
	case apperr.RequiresReauth(ae):
		if c.redirectOnAuth && c.invalidator != nil {
			if err := c.invalidator.Invalidate(); err != nil {
				log.Error().Err(err).Msg("session invalidation failed")
			}
		}
	case apperr.RequiresUpgrade(ae):
		if c.onUpgrade != nil {
			c.onUpgrade(ae)
		}
	}
	return ae
}

// ClearError resets the current error. It performs no side effects: the
// reauth redirect and upgrade callback are never re-triggered by a clear.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.err = nil
	c.fired = false
	c.mu.Unlock()
}

// SetLoading sets the loading flag directly.
func (c *Controller) SetLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

// Err returns the current classified error, or nil.
func (c *Controller) Err() *apperr.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// IsError reports whether an error is currently stored.
func (c *Controller) IsError() bool { return c.Err() != nil }

// IsLoading reports whether a Run call is in progress.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// begin reserves the controller for one Run call: rejects overlap, clears
// the previous error, and raises the loading flag.
func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight {
		return false
	}
	c.inflight = true
	c.err = nil
	c.fired = false
	c.loading = true
	return true
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.inflight = false
	c.loading = false
	c.mu.Unlock()
}

// Run executes fn under the controller's scope: the previous error is
// cleared first, loading is true for the duration and false on every exit
// path, and any failure is absorbed into controller state rather than
// propagated — callers observe it only through Err/IsError.
//
// ok is false in three cases, all observable through controller state:
// fn failed (error stored), the owning context was cancelled (nothing
// stored; a discarded scope is not an error outcome), or another Run was
// still pending on this controller (the in-flight call's state is left
// untouched).
func Run[T any](ctx context.Context, c *Controller, fn func(context.Context) (T, error)) (T, bool) {
	var zero T
	if !c.begin() {
		log.Warn().Msg("overlapping Run rejected; previous call still pending")
		return zero, false
	}
	defer c.finish()

	res, err := fn(ctx)
	if err == nil {
		return res, true
	}
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		return zero, false
	}
	c.HandleError(err)
	return zero, false
}
