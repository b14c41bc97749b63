package relay

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct values against their `validate` tags and reports
// failures as FieldError entries with JSON field paths. It wraps a single
// validator.Validate instance, which caches struct metadata and is safe for
// concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator that reports JSON field names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		default:
			return name
		}
	})
	return &Validator{validate: v}
}

// Check validates a value and returns one FieldError per failing field,
// prefixed with the given path segment. Non-struct values always pass; they
// take the plain conversion path instead of structured validation.
func (v *Validator) Check(prefix string, value any) []FieldError {
	t := reflect.TypeOf(value)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: prefix, Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(prefix, fe.Namespace()),
			Message: ruleMessage(fe),
		})
	}
	return fields
}

// fieldPath joins the parameter name with the field's namespace inside the
// struct, dropping the leading type name.
func fieldPath(prefix, namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found || rest == "" {
		return prefix
	}
	return prefix + "." + rest
}

func ruleMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("failed validation rule '%s=%s'", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed validation rule '%s'", fe.Tag())
}
