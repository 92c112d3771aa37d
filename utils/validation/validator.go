package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key used for errors not tied to a single field
const NonFieldErrors = "non_field_errors"

// DateLayout is the only accepted calendar date format
const DateLayout = "2006-01-02"

const (
	MsgRequired       = "This field is required."
	MsgBlank          = "This field may not be blank."
	MsgNull           = "This field may not be null."
	MsgInvalidEmail   = "Enter a valid email address."
	MsgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgInvalidInteger = "A valid integer is required."
	MsgInvalidString  = "Not a valid string."
)

// MaxLengthMessage is the message for strings longer than n characters
func MaxLengthMessage(n string) string {
	return fmt.Sprintf("Ensure this field has no more than %s characters.", n)
}

// InvalidPKMessage is the message for a reference to a row that does not exist
func InvalidPKMessage(id uint) string {
	return fmt.Sprintf(`Invalid pk "%d" - object does not exist.`, id)
}

// FieldErrors maps a field name to every message collected for it
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge copies the messages of other for fields e has no message for yet
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		if e.Has(field) {
			continue
		}
		e[field] = append(e[field], msgs...)
	}
}

func (e FieldErrors) HasErrors() bool { return len(e) > 0 }

// Has reports whether field already has a message
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns e as an error, or nil when nothing was collected
func (e FieldErrors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their json name
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return jsonName(sf)
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate checks input against its validate tags. On a full write every
// required field must be present in supplied; on a partial write only the
// supplied fields are checked.
func (v *Validator) Validate(input interface{}, supplied Payload, partial bool) FieldErrors {
	errs := FieldErrors{}

	rt := reflect.TypeOf(input)
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	var err error
	if partial {
		fields := make([]string, 0, len(supplied))
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if name := jsonName(sf); name != "" && supplied.Has(name) {
				fields = append(fields, sf.Name)
			}
		}
		if len(fields) == 0 {
			return errs
		}
		err = v.validate.StructPartial(input, fields...)
	} else {
		err = v.validate.Struct(input)
	}
	if err == nil {
		return errs
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}

	for _, e := range validationErrs {
		field := e.Field()
		if msg := message(e, supplied.Has(field)); msg != "" {
			errs.Add(field, msg)
		}
	}
	return errs
}

// message converts one failed tag to its client-facing message. An empty
// result means the failure is reported elsewhere (reference fields sent as 0
// fail reference resolution instead).
func message(e validator.FieldError, supplied bool) string {
	switch e.Tag() {
	case "required":
		if !supplied {
			return MsgRequired
		}
		if e.Kind() == reflect.String {
			return MsgBlank
		}
		return ""
	case "email":
		return MsgInvalidEmail
	case "max":
		return MaxLengthMessage(e.Param())
	case "date":
		return MsgInvalidDate
	default:
		return fmt.Sprintf("Invalid value for %s.", e.Field())
	}
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
