package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enum is implemented by string-backed enumerations.
type Enum interface {
	IsValid() bool
}

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
}

type structValidator struct {
	v *validator.Validate
}

// New builds a validator with the enum tag registered. Custom type funcs
// (for value types that wrap time or similar) can be passed in.
func New(typeFuncs ...TypeFunc) Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		if e, ok := fl.Field().Interface().(Enum); ok {
			return e.IsValid()
		}
		return false
	})
	for _, tf := range typeFuncs {
		v.RegisterCustomTypeFunc(tf.Fn, tf.Types...)
	}
	return &structValidator{v: v}
}

// TypeFunc maps custom value types to something the built-in tags understand.
type TypeFunc struct {
	Fn    validator.CustomTypeFunc
	Types []interface{}
}

func (s *structValidator) Validate(obj interface{}) error {
	err := s.v.Struct(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &FieldErrors{Messages: msgs}
}

// FieldErrors lists every failed field in declaration order.
type FieldErrors struct {
	Messages []string
}

func (e *FieldErrors) Error() string {
	return strings.Join(e.Messages, "; ")
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "enum":
		return fmt.Sprintf("%s has an invalid value %q", field, fmt.Sprint(fe.Value()))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
