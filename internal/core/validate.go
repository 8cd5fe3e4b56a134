// AngelaMos | 2026
// validate.go

package core

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the project's custom tags.
//
//	maxbytes=N  string length in bytes (max counts runes)
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return len(field.String()) <= limit
}
