package apperr

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/draftmill/draftmill-go/internal/api"
)

// Classify maps an arbitrary failure into a typed *Error. It is total:
// every input, including nil, yields a valid classified error and the
// function never panics.
//
// Matching is over a closed set of recognized shapes, first match wins:
//
//  1. Already-classified *Error values pass through unchanged.
//  2. *api.StatusError maps by status band (plan-limit signal first,
//     then 401/403, then 429/5xx, then remaining 4xx).
//  3. Transport/timeout failures (url.Error, net.Error, context
//     cancellation or deadline) map to the network kind.
//  4. Anything else is unknown, with the generic fallback message.
func Classify(err error) *Error {
	if err == nil {
		return newError(KindUnknown, "", "", nil)
	}

	var already *Error
	if errors.As(err, &already) {
		return already
	}

	var se *api.StatusError
	if errors.As(err, &se) {
		return newError(kindForStatus(se), se.Detail, se.RequestID, err)
	}

	if isNetworkError(err) {
		return newError(KindNetwork, "", "", err)
	}

	return newError(KindUnknown, "", "", err)
}

// kindForStatus maps an HTTP status band to a Kind. The plan-limit check
// runs first: a 403 carrying the plan-limit code is an upgrade prompt,
// not an auth failure.
func kindForStatus(se *api.StatusError) Kind {
	switch {
	case se.PlanLimited():
		return KindUpgradeRequired
	case se.StatusCode == 401 || se.StatusCode == 403:
		return KindAuth
	case se.StatusCode == 429 || se.StatusCode >= 500:
		return KindServerError
	case se.StatusCode >= 400:
		return KindValidation
	default:
		// 2xx/3xx should never reach the classifier; treat as unknown.
		return KindUnknown
	}
}

// isNetworkError recognizes the "connection failed" and "aborted"
// signatures: transport errors from net/http, timeouts, and context
// cancellation surfaced by an in-flight request.
func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
