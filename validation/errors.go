package validation

import "strings"

// FieldError is a validation failure for a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error reports every field that failed validation.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Has reports whether field failed validation.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
