package services

import (
	"chat-courier/domain"
	"chat-courier/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator registers "userid", which accepts empty values so it composes
// with required and required_without.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("userid", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id == "" || domain.IsUserID(id)
	})
	return v
}

// validateCommand reports struct tag violations as validation errors.
func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return nil
}
