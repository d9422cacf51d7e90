package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Wire formats of form fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireName)
	}
}

// wireName reports struct fields by their form or json name.
func wireName(sf reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name := strings.Split(sf.Tag.Get(key), ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

// validateForm runs the binding rules of a form.
func validateForm(form interface{}) error {
	return BindingError(binding.Validator.ValidateStruct(form))
}

// BindingError turns a failed binding rule into a ValidationError naming
// the first offending field. Other errors are returned unchanged.
func BindingError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	return NewValidationError(fe.Field(), ruleMessage(fe))
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must contain at least " + fe.Param() + " item(s)"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), "'", "")
	default:
		return "is invalid"
	}
}

// optionalDate parses a YYYY-MM-DD value. Empty input yields nil.
func optionalDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, NewValidationError(field, "must be a date formatted YYYY-MM-DD")
	}
	return &t, nil
}

func requiredDate(field, value string) (time.Time, error) {
	t, err := optionalDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, NewValidationError(field, "is required")
	}
	return *t, nil
}

func optionalInt(field, value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, NewValidationError(field, "must be an integer")
	}
	return &n, nil
}

// optionalDecimal accepts both "12.50" and "12,50".
func optionalDecimal(field, value string) (decimal.NullDecimal, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, NewValidationError(field, "must be a number")
	}
	return decimal.NewNullDecimal(d), nil
}

func optionalClock(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return "", NewValidationError(field, "must be a time formatted HH:MM")
	}
	return t.Format(TimeLayout), nil
}

// orDefault trims value and falls back to def when empty. Allowed values
// are checked by the form's oneof rule.
func orDefault(value, def string) string {
	if value = strings.TrimSpace(value); value == "" {
		return def
	}
	return value
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// Field is a form value that also accepts JSON numbers and null, so that
// numeric and date inputs bind the same way from HTML forms and JSON bodies.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	s := string(b)
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		*f = Field(unq)
	default:
		*f = Field(s)
	}
	return nil
}

func (f Field) String() string { return string(f) }

func decimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
