package commands

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/draftmill/draftmill-go/internal/api"
	"github.com/draftmill/draftmill-go/internal/app"
	"github.com/draftmill/draftmill-go/internal/apperr"
	"github.com/draftmill/draftmill-go/internal/controller"
	"github.com/draftmill/draftmill-go/internal/output"
	"github.com/draftmill/draftmill-go/internal/retry"
	"github.com/draftmill/draftmill-go/internal/session"
	"github.com/draftmill/draftmill-go/internal/toast"
)

type printedError struct {
	err error
}

func (e printedError) Error() string {
	// Intentionally hide the original error: the JSON error response is the output.
	return "error already printed"
}

// cmdErr prints the JSON error envelope and returns a sentinel so the root
// command does not print the error a second time.
func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	_ = output.PrintError(err)
	return printedError{err: err}
}

//nolint:gochecknoglobals // RWMutex override mirrors the session-db flag handling
var (
	baseURLOverrideMu sync.RWMutex
	baseURLOverride   string
)

func setBaseURLOverride(base string) {
	baseURLOverrideMu.Lock()
	baseURLOverride = base
	baseURLOverrideMu.Unlock()
}

func getBaseURLOverride() string {
	baseURLOverrideMu.RLock()
	v := baseURLOverride
	baseURLOverrideMu.RUnlock()
	return v
}

// cmdEnv is the per-command wiring: session store, API client, controller,
// retry executor, and toast channel, all bound to one command invocation
// (one interaction scope).
type cmdEnv struct {
	store  *session.Store
	client *api.Client
	ctrl   *controller.Controller
	exec   *retry.Executor
	toasts toast.Channel
}

// termNavigator is the CLI's Navigator: there is no router to drive, so a
// redirect becomes a sign-in prompt on stderr.
type termNavigator struct{}

func (termNavigator) GoTo(path string) {
	if path == session.LoginPath {
		fmt.Fprintln(os.Stderr, "Your session has ended. Run `draftmill login` to sign in again.")
		return
	}
	log.Debug().Str("path", path).Msg("navigation requested")
}

// withEnv builds the command environment, runs fn, and tears everything down.
func withEnv(fn func(e *cmdEnv) error) error {
	settings := app.EffectiveSettings()
	if base := getBaseURLOverride(); base != "" {
		settings.BaseURL = base
	}

	dbPath, err := app.GetSessionDBPath()
	if err != nil {
		return cmdErr(err)
	}
	store, err := session.Open(dbPath)
	if err != nil {
		return cmdErr(err)
	}
	defer func() { _ = store.Close() }()

	client, err := api.New(settings.BaseURL, api.WithTokenSource(store.Token))
	if err != nil {
		return cmdErr(err)
	}

	toasts := toast.TermChannel{Out: os.Stderr}
	ctrl := controller.New(
		controller.WithInvalidator(session.NewInvalidator(store, termNavigator{})),
		controller.WithUpgradeCallback(func(ae *apperr.Error) {
			fmt.Fprintf(os.Stderr, "%s Upgrade at %s/settings/billing\n", ae.Message, settings.BaseURL)
		}),
	)

	e := &cmdEnv{
		store:  store,
		client: client,
		ctrl:   ctrl,
		exec: &retry.Executor{
			MaxRetries: settings.MaxRetries,
			BaseDelay:  time.Duration(settings.BaseDelayMS) * time.Millisecond,
		},
		toasts: toasts,
	}

	if err := fn(e); err != nil {
		return cmdErr(err)
	}
	return nil
}

// reportFailure surfaces the controller's stored error as a toast and the
// JSON error envelope. Used after a Run returned ok=false.
func (e *cmdEnv) reportFailure() error {
	ae := e.ctrl.Err()
	if ae == nil {
		// Cancelled or overlapping call: nothing was classified.
		return fmt.Errorf("operation did not complete")
	}
	e.toasts.Present(toast.FormatForToast(ae))
	return ae
}
