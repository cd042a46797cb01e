package lib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var goValidator = validator.New()

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	if e.Param == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Rule)
	}
	return fmt.Sprintf("%s %s=%s", e.Field, e.Rule, e.Param)
}

type ValidationErrors struct {
	Fields []FieldError `json:"fields"`
}

func (ve ValidationErrors) Error() string {
	if len(ve.Fields) == 0 {
		return "no validation errors"
	}

	parts := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

// ValidateStruct validates a struct using go-playground/validator.
// Failed rules are returned as ValidationErrors, nil when the struct is valid.
func ValidateStruct(s any) error {
	err := goValidator.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := ValidationErrors{Fields: make([]FieldError, len(ve))}
	for i, e := range ve {
		out.Fields[i] = FieldError{
			Field: e.Namespace(),
			Rule:  e.ActualTag(),
			Param: e.Param(),
		}
	}
	return out
}

// RegisterStringRule adds a validation tag for string fields.
// It panics when the tag can't be registered, so call it from init.
func RegisterStringRule(tag string, valid func(string) bool) {
	err := goValidator.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}
