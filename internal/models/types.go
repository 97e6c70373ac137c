package models

import "time"

// Plan identifies the subscription tier attached to a user record.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
	PlanTeam Plan = "team"
)

// User is the account record returned by the Draftmill API and cached in
// the local session store after login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Plan  Plan   `json:"plan"`
}

// GenerationStatus tracks the lifecycle of a content generation request.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// Generation is a single content-generation result.
type Generation struct {
	ID        string           `json:"id"`
	Prompt    string           `json:"prompt"`
	Output    string           `json:"output,omitempty"`
	Format    string           `json:"format,omitempty"`
	Status    GenerationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
