// Package forms validates submitted HTML forms and carries the values and
// per-field errors back to the template on failure.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const msgRequired = "This field is required."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the submitted field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Form holds submitted values and validation errors.
type Form struct {
	Values         url.Values
	Errors         map[string][]string
	NonFieldErrors []string
}

func newForm(values url.Values) Form {
	if values == nil {
		values = url.Values{}
	}
	return Form{Values: values, Errors: map[string][]string{}}
}

// Get returns the submitted value of a field for re-rendering.
func (f *Form) Get(field string) string {
	return f.Values.Get(field)
}

// AddError attaches a message to field; an empty field is a non-field error.
func (f *Form) AddError(field, msg string) {
	if field == "" {
		f.NonFieldErrors = append(f.NonFieldErrors, msg)
		return
	}
	f.Errors[field] = append(f.Errors[field], msg)
}

// FieldErrors returns the messages attached to field.
func (f *Form) FieldErrors(field string) []string {
	return f.Errors[field]
}

// Valid reports whether no errors were attached.
func (f *Form) Valid() bool {
	return len(f.Errors) == 0 && len(f.NonFieldErrors) == 0
}

// check runs the struct's validate tags and records each failure against
// the field's form name.
func (f *Form) check(input any) {
	err := validate.Struct(input)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.AddError("", err.Error())
		return
	}
	for _, fe := range verrs {
		f.AddError(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		s, _ := fe.Value().(string)
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
	default:
		return fmt.Sprintf("Enter a valid value (%s).", fe.Tag())
	}
}
