package auth

import (
	stderrors "errors"
	"strings"
	"taskmarket/domain"
	"taskmarket/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// ValidateSignUp trims the command and reports the first rule it breaks, in the
// order the sign up form checks them: missing fields, weak password, mismatch, email.
func ValidateSignUp(cmd domain.SignUpCommand) (domain.SignUpCommand, error) {
	cmd.FirstName = strings.TrimSpace(cmd.FirstName)
	cmd.LastName = strings.TrimSpace(cmd.LastName)
	cmd.Phone = strings.TrimSpace(cmd.Phone)
	cmd.Address = strings.TrimSpace(cmd.Address)
	cmd.Email = strings.TrimSpace(cmd.Email)

	err := validate.Struct(cmd)
	if err == nil {
		return cmd, nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return cmd, err
	}
	failed := lo.Map(fieldErrors, func(fe validator.FieldError, _ int) string { return fe.Tag() })
	switch {
	case lo.Contains(failed, "required"):
		return cmd, errors.ErrMissingFields
	case lo.Contains(failed, "min"):
		return cmd, errors.ErrWeakPassword
	case lo.Contains(failed, "eqfield"):
		return cmd, errors.ErrPasswordMismatch
	default:
		return cmd, errors.ErrInvalidEmail
	}
}

// ValidateCommand checks the struct tags of a command; any failure means a missing field.
func ValidateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return errors.ErrMissingFields
	}
	return nil
}
