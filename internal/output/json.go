package output

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/draftmill/draftmill-go/internal/models"
)

// Response represents a standard JSON response
type Response struct {
	SchemaVersion string            `json:"schema_version"`
	Success       bool              `json:"success"`
	Data          interface{}       `json:"data,omitempty"`
	Error         string            `json:"error,omitempty"`
	ErrorKind     string            `json:"error_kind,omitempty"`
	ActionHint    string            `json:"action_hint,omitempty"`
	ErrorContext  map[string]string `json:"error_context,omitempty"`
}

// Success wraps a successful response with data
func Success(data interface{}) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response. Classified errors carry their kind,
// remediation hint, and correlation context into the envelope.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}

	var rec models.RecoverableError
	if errors.As(err, &rec) {
		resp.ErrorKind = rec.ErrorCode()
		resp.ActionHint = rec.SuggestedAction()
		resp.ErrorContext = rec.Context()
	}
	return resp
}

// Print prints a value as JSON to stdout
func Print(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	// Default to compact JSON. Enable pretty JSON for humans via env var:
	// DRAFTMILL_PRETTY_JSON=1.
	if os.Getenv("DRAFTMILL_PRETTY_JSON") == "1" || os.Getenv("DRAFTMILL_PRETTY_JSON") == "true" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// PrintSuccess prints a success response
func PrintSuccess(data interface{}) error {
	return Print(Success(data))
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Error(err))
}
