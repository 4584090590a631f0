package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a json field name to a human-readable message. It is also
// an error, so services can return it and handlers can unwrap it with
// errors.As.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + f[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{6,19}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so the messages line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})

	return v
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// IsEmail reports whether s is a valid email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// Struct validates v and returns the failing fields. A nil map means v is valid.
func Struct(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	out := FieldErrors{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(fe)] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	out["_"] = "invalid form data"
	return out
}

// fieldKey strips the root struct name from the namespace, so nested fields
// come out as "address.city" and slices as "items[0].code".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of: " + param
	case "gtfield":
		return "must be after " + param
	default:
		return "invalid value"
	}
}
