package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
)

// ValidationErrors maps a field name to the messages recorded against it.
// It renders directly as the 422 response body.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, strings.Join(v[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
