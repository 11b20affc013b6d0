package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Violation is a single failed constraint: a dotted field path and a
// human-friendly message. A failing request reports every violation, not just
// the first, in declaration order.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in error paths.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=6") // password minimum length
		v.RegisterAlias("nonzero", "required")
	}
}

// ToViolations converts binding/validation errors into the ordered violation
// list used as API error details.
func ToViolations(err error) []Violation {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) {
		return []Violation{{Path: "payload", Message: "invalid json"}}
	}
	if errors.As(err, &ute) {
		path := ute.Field
		if path == "" {
			path = "payload"
		}
		return []Violation{{Path: path, Message: "invalid type"}}
	}

	// Validation errors from validator.v10; order follows field declaration.
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]Violation, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, Violation{Path: fieldPath(fe), Message: formatFieldError(fe)})
		}
		return out
	}

	// Fallback
	return []Violation{{Path: "payload", Message: "invalid payload"}}
}

// fieldPath returns the dotted path of the offending field relative to the
// request struct, using JSON tag names.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "alpha":
		return "must contain alphabetic characters only"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "lowercase":
		return "must be in lowercase"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at least " + param
			}
			return "must be at least " + param + " characters long"
		}
		return "too small"
	case "max":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at most " + param
			}
			return "must be at most " + param + " characters long"
		}
		return "too large"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "eqfield":
		return "must be equal to " + param + " field"
	case "pwd":
		return "must be at least 6 characters long"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
