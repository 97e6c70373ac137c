package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftmill/draftmill-go/internal/api"
)

func TestClassify_Totality(t *testing.T) {
	inputs := []error{
		nil,
		errors.New(""),
		errors.New("plain failure"),
		fmt.Errorf("wrapped: %w", errors.New("inner")),
		&customError{},
	}

	for _, in := range inputs {
		ae := Classify(in)
		require.NotNil(t, ae)
		assert.NotEmpty(t, ae.Message)
		assert.NotEmpty(t, string(ae.Kind))
	}
}

type customError struct{}

func (*customError) Error() string { return "custom shape nobody registered" }

func TestClassify_StatusBands(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		code      string
		wantKind  Kind
		retryable bool
	}{
		{"unauthorized", 401, "", KindAuth, false},
		{"forbidden", 403, "", KindAuth, false},
		{"payment required", 402, "", KindUpgradeRequired, false},
		{"plan limit on 403", 403, api.PlanLimitCode, KindUpgradeRequired, false},
		{"rate limited", 429, "", KindServerError, true},
		{"bad gateway", 502, "", KindServerError, true},
		{"internal error", 500, "", KindServerError, true},
		{"unprocessable", 422, "", KindValidation, false},
		{"bad request", 400, "", KindValidation, false},
		{"not found", 404, "", KindValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := Classify(&api.StatusError{StatusCode: tt.status, Status: "status", Code: tt.code})
			assert.Equal(t, tt.wantKind, ae.Kind)
			assert.Equal(t, tt.retryable, ae.Retryable)
		})
	}
}

func TestClassify_PrefersBodyDetail(t *testing.T) {
	ae := Classify(&api.StatusError{
		StatusCode: 422,
		Status:     "422 Unprocessable Entity",
		Detail:     "prompt must not be empty",
	})
	assert.Equal(t, "prompt must not be empty", ae.Message)

	// No detail: the kind-specific default, not the reason phrase.
	ae = Classify(&api.StatusError{StatusCode: 422, Status: "422 Unprocessable Entity"})
	assert.NotContains(t, ae.Message, "Unprocessable")
	assert.NotEmpty(t, ae.Message)
}

func TestClassify_CarriesRequestID(t *testing.T) {
	ae := Classify(&api.StatusError{StatusCode: 500, Status: "500", RequestID: "req-123"})
	assert.Equal(t, "req-123", ae.RequestID)
	assert.Equal(t, "req-123", ae.Context()["request_id"])

	ae = Classify(errors.New("no id here"))
	assert.Empty(t, ae.RequestID)
}

func TestClassify_NetworkShapes(t *testing.T) {
	inputs := []error{
		&url.Error{Op: "Post", URL: "https://api.example.com", Err: errors.New("connection refused")},
		fmt.Errorf("api: POST /v1/generations: %w", &url.Error{Op: "Post", URL: "x", Err: errors.New("reset")}),
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, in := range inputs {
		ae := Classify(in)
		assert.Equal(t, KindNetwork, ae.Kind, "input: %v", in)
		assert.True(t, ae.Retryable)
	}
}

func TestClassify_UnknownFallback(t *testing.T) {
	ae := Classify(errors.New("???"))
	assert.Equal(t, KindUnknown, ae.Kind)
	assert.False(t, ae.Retryable)
	assert.Equal(t, "Something went wrong. Please try again.", ae.Message)
}

func TestClassify_PassthroughAlreadyClassified(t *testing.T) {
	first := Classify(&api.StatusError{StatusCode: 401, Status: "401"})
	second := Classify(first)
	assert.Same(t, first, second)
}

func TestClassify_PreservesCause(t *testing.T) {
	cause := &api.StatusError{StatusCode: 503, Status: "503"}
	ae := Classify(cause)

	var se *api.StatusError
	require.True(t, errors.As(ae, &se))
	assert.Equal(t, 503, se.StatusCode)
}

func TestRetryableIsPureFunctionOfKind(t *testing.T) {
	// Two errors of the same kind from different sources agree on retryability.
	a := Classify(&api.StatusError{StatusCode: 500, Status: "500"})
	b := Classify(&api.StatusError{StatusCode: 503, Status: "503", Detail: "maintenance"})
	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Retryable, b.Retryable)

	for _, k := range []Kind{KindNetwork, KindServerError, KindAuth, KindUpgradeRequired, KindValidation, KindUnknown} {
		assert.Equal(t, k.Retryable(), k.Retryable())
	}
	assert.True(t, KindNetwork.Retryable())
	assert.True(t, KindServerError.Retryable())
	assert.False(t, KindAuth.Retryable())
	assert.False(t, KindUpgradeRequired.Retryable())
	assert.False(t, KindValidation.Retryable())
	assert.False(t, KindUnknown.Retryable())
}
