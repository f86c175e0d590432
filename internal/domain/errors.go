package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps a draft field (its JSON name) to a message.
// An empty set means the draft may be submitted.
type ValidationErrors map[string]string

func (v ValidationErrors) Empty() bool { return len(v) == 0 }

// Fields returns the failing field names in sorted order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Clone returns an independent copy; nil stays nil.
func (v ValidationErrors) Clone() ValidationErrors {
	if v == nil {
		return nil
	}
	out := make(ValidationErrors, len(v))
	for k, m := range v {
		out[k] = m
	}
	return out
}

// RequestError is a failed call to one of the collaborator APIs: either the
// transport failed (Err set, StatusCode 0) or the API answered non-2xx.
type RequestError struct {
	Op         string // e.g. "creating transaction"
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("error %s: status %d - %s", e.Op, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("error %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("error %s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Banner is the single user-facing line shown for the failure.
func (e *RequestError) Banner() string {
	if e.Op == "" {
		return "Request failed"
	}
	return "Error " + e.Op
}
