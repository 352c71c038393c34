package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "session not found"},
			want: "session not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeUpstream,
				Message: "login failed",
				Cause:   errors.New("connection refused"),
			},
			want: "login failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false, want true", err)
	}
}

func TestWrap_NilError(t *testing.T) {
	if got := Wrap(nil, ErrCodeInternal, "ignored"); got != nil {
		t.Errorf("Wrap(nil) = %v, want nil", got)
	}
}

func TestCodeHelpers(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Unauthorized("Invalid credentials"))

	if !IsUnauthorized(wrapped) {
		t.Error("IsUnauthorized() = false for wrapped unauthorized error")
	}
	if IsValidation(wrapped) {
		t.Error("IsValidation() = true for unauthorized error")
	}
	if !IsNotFound(NotFound("missing")) {
		t.Error("IsNotFound() = false for NotFound error")
	}
	if !IsValidation(ValidationField("email", "bad")) {
		t.Error("IsValidation() = false for ValidationField error")
	}
	if !IsUpstream(Wrapf(errors.New("boom"), ErrCodeUpstream, "status %d", 502)) {
		t.Error("IsUpstream() = false for upstream error")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "app error", err: Internal("x"), want: ErrCodeInternal},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ErrCodeCanceled},
		{name: "plain error", err: errors.New("plain"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Validation("Please fill in all fields."), "fallback"); got != "Please fill in all fields." {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("dial tcp"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage() = %q, want fallback", got)
	}
	if got := UserMessage(&AppError{Code: ErrCodeUpstream}, "fallback"); got != "fallback" {
		t.Errorf("UserMessage() = %q, want fallback for empty message", got)
	}
}
