package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
