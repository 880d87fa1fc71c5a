package forms

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrFormNotFound is returned for an unknown form id
	ErrFormNotFound = errors.New("forms: form not found")

	// ErrActionNotFound is returned for an action the form does not offer
	ErrActionNotFound = errors.New("forms: action not found")
)

// FixErrorsMessage is the toast shown when validation fails.
const FixErrorsMessage = "Please fix the form errors before submitting"

// ValidationError carries one message per failing field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "forms: invalid fields: " + strings.Join(names, ", ")
}
