package metrics

import (
	"time"

	apperrors "github.com/expensetracker/web/internal/errors"
	"github.com/expensetracker/web/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Auth actions.
const (
	ActionLogin  = "login"
	ActionSignup = "signup"
	ActionLogout = "logout"
)

// AuthMetric captures one auth flow outcome for metric emission.
type AuthMetric struct {
	Action   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAuthOutcome emits a counter and, when measured, a timing for an auth flow.
func EmitAuthOutcome(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"action": in.Action,
		"result": in.Result,
	}
	if in.Err != nil && in.Result != ResultSuccess {
		if code := apperrors.GetCode(in.Err); code != "" {
			tags["error_code"] = string(code)
		} else {
			tags["error_code"] = "unknown"
		}
	}

	sink.Count("auth."+in.Action, 1, tags)

	if in.Duration > 0 {
		sink.Timing("auth."+in.Action+".duration", in.Duration, cloneTags(tags))
	}
}

// ResultFor maps an error to the result tag used by EmitAuthOutcome.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case apperrors.IsValidation(err):
		return ResultInvalid
	default:
		return ResultError
	}
}

func cloneTags(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
