// Package toast maps failures into the transient-notification triple the
// presentation layer displays.
package toast

import (
	"fmt"
	"io"
	"time"

	"github.com/draftmill/draftmill-go/internal/apperr"
)

// Variant is the severity of a toast.
type Variant string

const (
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
)

// Toast is the presentation triple for one transient notification.
// Display duration is the consumer's concern, not part of the triple.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Channel presents toasts to the user.
type Channel interface {
	Present(t Toast)
}

// FormatForToast classifies raw and maps it to a toast. Validation and
// plan-limit failures are routine enough for a warning; everything else
// is an error.
func FormatForToast(raw error) Toast {
	ae := apperr.Classify(raw)
	return Toast{
		Title:       titleFor(ae.Kind),
		Description: ae.Message,
		Variant:     variantFor(ae.Kind),
	}
}

func titleFor(k apperr.Kind) string {
	switch k {
	case apperr.KindNetwork:
		return "Connection problem"
	case apperr.KindServerError:
		return "Service unavailable"
	case apperr.KindAuth:
		return "Session expired"
	case apperr.KindUpgradeRequired:
		return "Plan limit reached"
	case apperr.KindValidation:
		return "Check your input"
	default:
		return "Something went wrong"
	}
}

func variantFor(k apperr.Kind) Variant {
	switch k {
	case apperr.KindValidation, apperr.KindUpgradeRequired:
		return VariantWarning
	default:
		return VariantError
	}
}

// TermChannel writes toasts to a terminal stream. It also owns the
// display-duration policy a richer consumer would use: errors dwell
// longer than warnings.
type TermChannel struct {
	Out io.Writer
}

// Dwell returns how long a toast of the given variant should stay visible.
func (TermChannel) Dwell(v Variant) time.Duration {
	if v == VariantError {
		return 5 * time.Second
	}
	return 3 * time.Second
}

// Present writes the toast as a single line.
func (tc TermChannel) Present(t Toast) {
	fmt.Fprintf(tc.Out, "[%s] %s: %s\n", t.Variant, t.Title, t.Description)
}
