package api

import "fmt"

// PlanLimitCode is the machine-readable code the API attaches to error
// bodies when a request is rejected because the plan quota is exhausted.
// It can arrive on 402 as well as on 403/429 responses.
const PlanLimitCode = "plan_limit_exceeded"

// errorBody is the JSON error envelope returned by the Draftmill API.
type errorBody struct {
	Detail    string `json:"detail"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// StatusError is a failed API call that produced an HTTP response.
// The classifier matches on this type; everything it needs (status band,
// machine-readable detail, plan-limit code, correlation id) lives here.
type StatusError struct {
	StatusCode int
	Status     string // HTTP reason phrase, e.g. "401 Unauthorized"
	Detail     string // machine-readable detail from the error body
	Code       string // machine-readable error code from the error body
	RequestID  string // correlation id from body or X-Request-Id header
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("draftmill api: %s", e.Status)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}
	return msg
}

// PlanLimited reports whether the response signalled a plan-quota rejection.
func (e *StatusError) PlanLimited() bool {
	return e.StatusCode == 402 || e.Code == PlanLimitCode
}
