// Package apperr turns arbitrary failures from API calls into a small,
// closed taxonomy of typed errors that the rest of the client acts on:
// retry decisions, session invalidation, upgrade prompts, toasts.
package apperr

// Kind is the taxonomy category of a classified failure. Every policy
// decision in the client keys off Kind and nothing else.
type Kind string

const (
	// KindNetwork is a transport or timeout failure with no HTTP status.
	KindNetwork Kind = "network"

	// KindServerError covers 429 and the 5xx band.
	KindServerError Kind = "serverError"

	// KindAuth covers 401 and 403; triggers session invalidation.
	KindAuth Kind = "auth"

	// KindUpgradeRequired is a plan-limit rejection (402 or body code).
	KindUpgradeRequired Kind = "upgradeRequired"

	// KindValidation covers the remaining 4xx band.
	KindValidation Kind = "validation"

	// KindUnknown is anything the classifier could not recognize.
	KindUnknown Kind = "unknown"
)

// Retryable reports whether failures of this kind are worth retrying.
// It is a pure function of Kind; Error.Retryable is derived from it at
// construction and never set independently.
func (k Kind) Retryable() bool {
	switch k {
	case KindNetwork, KindServerError:
		return true
	default:
		return false
	}
}

// Error is the immutable classified representation of a failure.
type Error struct {
	// Message is always non-empty, even for unrecognized input.
	Message string

	// Kind drives every policy decision.
	Kind Kind

	// ActionHint is an optional short remediation string.
	ActionHint string

	// RequestID is the correlation id for support/debugging; present only
	// when the source failure carried one.
	RequestID string

	// Retryable is derived from Kind at construction time.
	Retryable bool

	cause error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the original failure for errors.Is/As support.
func (e *Error) Unwrap() error { return e.cause }

// ErrorCode implements models.RecoverableError.
func (e *Error) ErrorCode() string { return string(e.Kind) }

// Context implements models.RecoverableError.
func (e *Error) Context() map[string]string {
	ctx := map[string]string{"kind": string(e.Kind)}
	if e.RequestID != "" {
		ctx["request_id"] = e.RequestID
	}
	return ctx
}

// SuggestedAction implements models.RecoverableError.
func (e *Error) SuggestedAction() string { return e.ActionHint }

// fallbackMessage is the generic message for unrecognized failures.
const fallbackMessage = "Something went wrong. Please try again."

// defaultMessage returns the kind-specific message used when the failure
// carried no machine-readable detail.
func defaultMessage(k Kind) string {
	switch k {
	case KindNetwork:
		return "Unable to reach Draftmill. Check your connection and retry."
	case KindServerError:
		return "Draftmill is having trouble right now. Please try again shortly."
	case KindAuth:
		return "Your session has expired. Please sign in again."
	case KindUpgradeRequired:
		return "You've reached the limit of your current plan."
	case KindValidation:
		return "The request could not be processed."
	default:
		return fallbackMessage
	}
}

// defaultHint returns the remediation hint for a kind, empty when there is
// nothing actionable to suggest.
func defaultHint(k Kind) string {
	switch k {
	case KindNetwork:
		return "Check your connection and retry."
	case KindServerError:
		return "Retry in a few seconds."
	case KindAuth:
		return "Sign in again."
	case KindUpgradeRequired:
		return "Upgrade your plan to continue."
	case KindValidation:
		return "Review the input and try again."
	default:
		return ""
	}
}

// newError constructs a classified error with derived retryability.
// Only Classify calls it, so the per-kind counter lives here.
func newError(k Kind, message, requestID string, cause error) *Error {
	classifiedTotal.WithLabelValues(string(k)).Inc()
	if message == "" {
		message = defaultMessage(k)
	}
	return &Error{
		Message:    message,
		Kind:       k,
		ActionHint: defaultHint(k),
		RequestID:  requestID,
		Retryable:  k.Retryable(),
		cause:      cause,
	}
}
