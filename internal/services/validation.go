package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storefront-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tags and converts failures into a ValidationError.
func check(in any) *ValidationError {
	verr := &ValidationError{}
	err := validate.Struct(in)
	if err == nil {
		return verr
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		verr.Add("request", err.Error())
		return verr
	}
	for _, fe := range fields {
		verr.Add(fe.Field(), message(fe))
	}
	return verr
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	kind := fe.Kind()
	if kind == reflect.Ptr {
		kind = fe.Type().Elem().Kind()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min", "gte":
		if kind == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max", "lte":
		if kind == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// checkPrice accepts nil; the caller decides whether the field is required.
func checkPrice(verr *ValidationError, field string, v *decimal.Decimal) {
	if v == nil {
		return
	}
	name := strings.ReplaceAll(field, "_", " ")
	switch {
	case v.IsNegative():
		verr.Add(field, fmt.Sprintf("The %s must be at least 0.", name))
	case v.Round(2).GreaterThan(domain.MaxPrice):
		verr.Add(field, fmt.Sprintf("The %s may not be greater than %s.", name, domain.MaxPrice.StringFixed(2)))
	}
}
