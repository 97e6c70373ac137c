package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// LoginPath is the navigation target after the session is invalidated.
const LoginPath = "/login"

var invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "draftmill_client",
	Name:      "session_invalidations_total",
	Help:      "Session invalidations triggered by authentication failures.",
})

// Navigator redirects the surrounding UI to a new location. The CLI's
// implementation prints a sign-in prompt; a GUI would route for real.
type Navigator interface {
	GoTo(path string)
}

// Invalidator clears the persisted session and sends the user back to the
// login entry point. It is the single writer of session state in the error
// path; nothing else in the error-handling core touches the store.
type Invalidator struct {
	store *Store
	nav   Navigator
}

// NewInvalidator wires an Invalidator to its store and navigator.
func NewInvalidator(store *Store, nav Navigator) *Invalidator {
	return &Invalidator{store: store, nav: nav}
}

// Invalidate removes the persisted token and user record and navigates to
// the login entry point. Idempotent: invoking twice leaves the same end
// state as invoking once.
func (i *Invalidator) Invalidate() error {
	invalidationsTotal.Inc()
	if err := i.store.Clear(); err != nil {
		// Navigation still happens: a half-cleared session must not strand
		// the user on a broken screen.
		log.Error().Err(err).Msg("failed to clear session store")
		i.nav.GoTo(LoginPath)
		return err
	}
	i.nav.GoTo(LoginPath)
	return nil
}
