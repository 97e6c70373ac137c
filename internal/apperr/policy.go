package apperr

// RequiresReauth reports whether the failure invalidates the session.
// Pure predicate; safe to call repeatedly and from any context.
func RequiresReauth(e *Error) bool {
	return e != nil && e.Kind == KindAuth
}

// RequiresUpgrade reports whether the failure is a plan-limit rejection.
func RequiresUpgrade(e *Error) bool {
	return e != nil && e.Kind == KindUpgradeRequired
}
