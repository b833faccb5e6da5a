package auth

import (
	"chat-courier/errors"
	stderrors "errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest carries the account and the public profile of a new user.
type RegisterRequest struct {
	Email     string `validate:"required,email,max=254"`
	Password  string `validate:"required,min=12,max=72"`
	FirstName string `validate:"max=64"`
	LastName  string `validate:"max=64"`
	Image     string `validate:"omitempty,url"`
	Color     int    `validate:"min=0,max=15"`
}

// ValidateRegister returns ErrInvalidPassword for anything wrong with the password
// and ErrValidation for the other fields.
func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if stderrors.As(err, &fields) {
			for _, field := range fields {
				if field.Field() == "Password" {
					return fmt.Errorf("%w: %s", errors.ErrInvalidPassword, field.Tag())
				}
			}
		}
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	if !isPasswordComplex(req.Password) {
		return fmt.Errorf("%w: needs upper, lower, digit and symbol", errors.ErrInvalidPassword)
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var upper, lower, digit, special bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			upper = true
		case unicode.IsLower(char):
			lower = true
		case unicode.IsDigit(char):
			digit = true
		case unicode.IsPunct(char), unicode.IsSymbol(char):
			special = true
		}
	}
	return upper && lower && digit && special
}
