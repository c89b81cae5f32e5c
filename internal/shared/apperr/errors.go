// Package apperr defines the error taxonomy shared by every feature.
// Usecases return these errors (or wrap them) and the HTTP layer maps them to
// status codes in one place.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated indicates missing, invalid or rejected credentials.
	ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")

	// ErrForbidden indicates the caller is authenticated but may not perform the action.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrNotFound indicates the resource does not exist or is owned by another user.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the caller exceeded the allowed request rate.
	ErrRateLimited = errors.New("too many requests")
)

// NonFieldErrors is the key used for validation messages not tied to one field.
const NonFieldErrors = "non_field_errors"

// ValidationError collects per-field validation messages.
// The zero value is ready to use.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError holding a single message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add appends msg to the messages of field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// Merge copies every message of other into v.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		for _, m := range msgs {
			v.Add(field, m)
		}
	}
}

// HasErrors reports whether any message was collected.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// OrNil returns v as an error when it holds messages, nil otherwise.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidation extracts a *ValidationError from err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
