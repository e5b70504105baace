package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Struct tags registered by RegisterTags.
const (
	TagTRC20       = "trc20"
	TagSimpleEmail = "simple_email"
)

// RegisterTags adds the trc20 and simple_email tags to v. Both trim the
// field before matching, like the form validators.
func RegisterTags(v *validator.Validate) error {
	if err := v.RegisterValidation(TagTRC20, func(fl validator.FieldLevel) bool {
		return IsTRC20Address(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation(TagSimpleEmail, func(fl validator.FieldLevel) bool {
		return IsEmailSyntax(strings.TrimSpace(fl.Field().String()))
	})
}

// NewStructValidator returns a validator.Validate with the custom tags.
func NewStructValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterTags(v); err != nil {
		// only fails on an empty tag or nil func
		panic(err)
	}
	return v
}
