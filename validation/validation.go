// Package validation collects field violations as stable codes that
// templates and JSON clients translate.
package validation

import (
	"errors"
	"math"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Violations maps a field path to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Merge copies violations from o that are not already set.
func (v Violations) Merge(o Violations) {
	for k, c := range o {
		if _, ok := v[k]; !ok {
			v[k] = c
		}
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if !(val > 0) || math.IsInf(val, 1) {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if !(val >= 0) || math.IsInf(val, 1) {
		v[field] = "out_of_range"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if !(val >= minVal && val <= maxVal) {
		v[field] = "out_of_range"
	}
}

// Email accepts an empty value; otherwise it must be a bare address.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if a, err := mail.ParseAddress(value); err != nil || a.Address != value {
		v[field] = "invalid_email"
	}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct runs the `validate` tags of s and returns the failures keyed by
// their JSON path (for example "articles[0].quantite").
func Struct(s any) Violations {
	out := Violations{}
	err := instance().Struct(s)
	if err == nil {
		return out
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["_"] = "invalid"
		return out
	}
	for _, fe := range ves {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		if _, exists := out[path]; !exists {
			out[path] = code(fe)
		}
	}
	return out
}

func code(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return "must_be_positive"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "required"
		}
		return "out_of_range"
	case "gte", "lte", "max", "lt":
		return "out_of_range"
	case "email":
		return "invalid_email"
	case "oneof":
		return "invalid_choice"
	}
	return "invalid"
}
