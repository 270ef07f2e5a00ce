// Package validation wraps go-playground/validator so failures come back as
// apperrors Validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// Validator validates request structs and single values.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their json tag.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s.
func (val *Validator) Struct(s interface{}) error {
	return convert(val.v.Struct(s), "")
}

// Var validates a single value under the given field name.
func (val *Validator) Var(field string, value interface{}, tag string) error {
	return convert(val.v.Var(value, tag), field)
}

// Merge folds several validation results into one error, or nil.
func Merge(errs ...error) error {
	fields := make(map[string]string)
	for _, err := range errs {
		if err == nil {
			continue
		}
		e, ok := apperrors.As(err)
		if !ok || e.Kind != apperrors.Validation {
			return err
		}
		for k, msg := range e.Fields {
			fields[k] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.Invalid("Validation failed", fields)
}

func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.Internal, err, "validation could not run")
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		name := e.Field()
		if field != "" {
			name = field
		}
		fields[name] = fmt.Sprintf("Field '%s' failed on the '%s' tag", name, e.Tag())
	}
	return apperrors.Invalid("Validation failed", fields)
}
