// Package validate collects field-scoped validation failures.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Codes reported alongside messages.
const (
	CodeRequired          = "required"
	CodeInvalid           = "invalid"
	CodeInvalidFormat     = "invalid_format"
	CodeDuplicateEmail    = "duplicate_email"
	CodeDuplicateUsername = "duplicate_username"
	CodeMismatch          = "password_mismatch"
	CodeTooShort          = "password_too_short"
	CodeMissingDigit      = "password_no_digit"
	CodeMissingUppercase  = "password_no_upper"
	CodeMissingLowercase  = "password_no_lower"
	CodeMissingSpecial    = "password_no_special"
	CodeInvalidImage      = "invalid_image"
)

const (
	MsgRequired    = "This field is required."
	MsgInvalid     = "Enter a valid value."
	MsgWholeNumber = "Enter a whole number."
)

type FieldError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Errors maps a field name to its failures in the order they were found.
type Errors map[string][]FieldError

func (e Errors) Add(field, code, msg string) {
	e[field] = append(e[field], FieldError{Code: code, Msg: msg})
}

func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// Codes lists the codes reported for field.
func (e Errors) Codes(field string) []string {
	out := make([]string, 0, len(e[field]))
	for _, fe := range e[field] {
		out = append(out, fe.Code)
	}
	return out
}

// Merge appends every failure of other into e.
func (e Errors) Merge(other Errors) {
	for f, list := range other {
		e[f] = append(e[f], list...)
	}
}

// Err returns nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		for _, fe := range e[f] {
			if b.Len() > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f + ": " + fe.Msg)
		}
	}
	return b.String()
}

// As extracts Errors from err.
func As(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
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
	return v
}

// Struct runs the `validate` tags of s and returns the failures keyed by json field name.
func Struct(s any) Errors {
	out := Errors{}
	err := v.Struct(s)
	if err == nil {
		return out
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out.Add("__all__", CodeInvalid, err.Error())
		return out
	}
	for _, fe := range ves {
		code, msg := message(fe)
		out.Add(fe.Field(), code, msg)
	}
	return out
}

func message(fe validator.FieldError) (string, string) {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return CodeRequired, MsgRequired
	case "email":
		return CodeInvalid, "Enter a valid email address."
	case "url":
		return CodeInvalid, "Enter a valid URL."
	case "max", "lte":
		if isString {
			return CodeInvalid, fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return CodeInvalid, fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min", "gte":
		if isString {
			return CodeInvalid, fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return CodeInvalid, fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		return CodeInvalid, "Select a valid choice."
	}
	return CodeInvalid, MsgInvalid
}
