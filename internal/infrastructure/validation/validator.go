// Package validation bridges struct-tag validation into the domain error
// taxonomy: tag violations come back as htm.Error values of type
// invalid_config rather than raw validator output, so callers handle one
// error shape everywhere.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// Validator evaluates the `validate` struct tags on configuration types.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator that knows the project's extra tags and reports
// fields under their json names.
func New() *Validator {
	v := validator.New()

	// Encoder widths must be odd so a value has a center bit.
	v.RegisterValidation("odd", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fl.Field().Int()%2 == 1
		default:
			return false
		}
	})

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate checks s against its struct tags. It returns nil when every tag
// holds, otherwise a single invalid_config error carrying the first
// offending field and a message listing every violated constraint.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return htm.NewError(htm.ErrorInvalidConfig, err.Error())
	}

	parts := make([]string, 0, len(violations))
	for _, violation := range violations {
		parts = append(parts, describe(violation))
	}
	return htm.NewErrorWithField(htm.ErrorInvalidConfig,
		strings.Join(parts, "; "), violations[0].Field())
}

// describe renders one tag violation as "<field> <constraint>".
func describe(violation validator.FieldError) string {
	field := violation.Field()
	switch violation.Tag() {
	case "required":
		return field + " must be set"
	case "odd":
		return field + " must be an odd number"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, violation.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, violation.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, violation.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, violation.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, violation.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, violation.Param())
	case "max":
		return fmt.Sprintf("%s allows at most %s entries", field, violation.Param())
	default:
		return fmt.Sprintf("%s breaks the %q constraint", field, violation.Tag())
	}
}
