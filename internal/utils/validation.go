package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsSensitiveField checks if a field is sensitive and should not be echoed
func IsSensitiveField(field string) bool {
	lower := strings.ToLower(field)
	for _, sensitive := range []string{"password", "token", "secret", "key", "auth", "cred", "private"} {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// SanitizeValue renders a rejected value for a response, hiding sensitive
// fields and truncating long strings. Submitted source code is never echoed.
func SanitizeValue(field string, value interface{}) string {
	if IsSensitiveField(field) || field == "code" {
		return "[REDACTED]"
	}
	s := fmt.Sprintf("%v", value)
	if len(s) > 100 {
		return s[:97] + "..."
	}
	return s
}

// snakeCase maps a Go field name to its JSON name
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidationDetails converts validator failures into response details.
// Errors of any other kind yield nil.
func ValidationDetails(err error) []*ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]*ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := snakeCase(fe.Field())
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
		default:
			message = fmt.Sprintf("%s failed validation: %s=%s", field, fe.Tag(), fe.Param())
		}
		ve := &ValidationError{
			Field:   field,
			Code:    strings.ToUpper(fe.Tag()),
			Message: message,
		}
		if fe.Tag() != "required" {
			ve.Value = SanitizeValue(field, fe.Value())
		}
		out = append(out, ve)
	}
	return out
}
