// Package form decodes submitted HTML forms into input structs, validates
// them and turns them into model records.
//
// DECODE, NORMALISE, VALIDATE:
// Decode runs three steps. go-playground/form fills the struct from
// url.Values (multi-valued "genres", checkbox booleans), the input trims its
// own strings, and go-playground/validator checks the `validate` tags plus a
// few rules that need more than a tag (parsing the start time, the length of
// the joined genre list). Every failure is collected, so the visitor sees all
// problems at once, and returned as a single apperror.Invalid.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/stagebook/internal/apperror"
)

// StartTimeLayouts are accepted for a show's start time, tried in order.
// Values without an offset are read in the processor's location.
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// StartTimeInputLayout is what a new show form is pre-filled with.
const StartTimeInputLayout = "2006-01-02 15:04:05"

var phonePattern = regexp.MustCompile(`^(\d{3}-\d{3}-\d{4}|\d{7,15})$`)

// Input is implemented by the form structs in this package.
type Input interface {
	normalize()
	check(p *Processor) []apperror.FieldError
}

// Processor decodes and validates submissions. It is safe for concurrent use.
type Processor struct {
	decoder  *form.Decoder
	validate *validator.Validate
	loc      *time.Location
}

// New creates a Processor. loc is used for start times submitted without an
// offset; nil means UTC.
func New(loc *time.Location) *Processor {
	if loc == nil {
		loc = time.UTC
	}

	dec := form.NewDecoder()
	dec.SetTagName("form")
	dec.RegisterCustomTypeFunc(decodeCheckbox, false)

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "usstate", func(fl validator.FieldLevel) bool {
		_, ok := stateSet[fl.Field().String()]
		return ok
	})
	mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
		_, ok := genreSet[fl.Field().String()]
		return ok
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Processor{decoder: dec, validate: v, loc: loc}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("form: registering %q: %v", tag, err))
	}
}

// decodeCheckbox accepts what browsers and WTForms-style templates send for
// a ticked checkbox ("y", "on", "true", ...). Anything else is false.
func decodeCheckbox(vals []string) (any, error) {
	if len(vals) == 0 {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(vals[len(vals)-1])) {
	case "y", "yes", "on", "true", "1", "t":
		return true, nil
	}
	return false, nil
}

// Decode fills dst from values and validates it. Validation problems come
// back as an apperror.ErrValidation carrying one FieldError per field.
func (p *Processor) Decode(values url.Values, dst Input) error {
	var fields []apperror.FieldError

	if err := p.decoder.Decode(dst, values); err != nil {
		var decodeErrs form.DecodeErrors
		if !errors.As(err, &decodeErrs) {
			return fmt.Errorf("form: decoding: %w", err)
		}
		for name := range decodeErrs {
			fields = append(fields, apperror.FieldError{
				Field:   baseField(name),
				Message: baseField(name) + " is not a valid value",
			})
		}
	}

	dst.normalize()

	if err := p.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("form: validating: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   baseField(fe.Field()),
				Message: message(fe),
			})
		}
	}

	fields = append(fields, dst.check(p)...)
	if len(fields) > 0 {
		return apperror.Invalid(dedupe(fields))
	}
	return nil
}

// baseField strips a slice index such as "genres[2]".
func baseField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

func message(fe validator.FieldError) string {
	field := baseField(fe.Field())
	switch fe.Tag() {
	case "required", "min":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "usstate":
		return field + " must be a valid state"
	case "genre":
		return fmt.Sprintf("%q is not a valid genre", fe.Value())
	case "phone":
		return field + " must look like 123-456-7890"
	case "gt":
		return field + " must be a valid id"
	}
	return field + " is invalid"
}

// dedupe keeps the first message for each field, preserving order.
func dedupe(fields []apperror.FieldError) []apperror.FieldError {
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		out = append(out, f)
	}
	return out
}

// parseStartTime tries each of StartTimeLayouts in loc.
func parseStartTime(value string, loc *time.Location) (time.Time, bool) {
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
