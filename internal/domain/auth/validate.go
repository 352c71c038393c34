package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/expensetracker/web/internal/errors"
)

// User-facing signup validation messages.
const (
	MsgFillAllFields    = "Please fill in all fields."
	MsgPasswordTooShort = "Password must be at least 6 characters long."
)

// Validate checks the signup payload. Missing fields take precedence over a
// short password. Length is counted in characters and is deliberately
// independent of the strength score.
func (r SignupRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error(MsgFillAllFields)),
		validation.Field(&r.Email, validation.Required.Error(MsgFillAllFields)),
		validation.Field(&r.Password,
			validation.Required.Error(MsgFillAllFields),
			validation.RuneLength(MinimumPasswordLength, 0).Error(MsgPasswordTooShort),
		),
	)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "validate signup")
	}

	for _, field := range []string{"name", "email", "password"} {
		if fe, ok := fieldErrs[field]; ok && fe.Error() == MsgFillAllFields {
			return apperrors.ValidationField(field, MsgFillAllFields)
		}
	}
	if fe, ok := fieldErrs["password"]; ok {
		return apperrors.ValidationField("password", fe.Error())
	}
	return apperrors.Validation(MsgFillAllFields)
}
