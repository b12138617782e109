// Package apperr holds the client-side error kinds that never reach the network.
package apperr

import "strings"

// ValidationError reports a failed local check. Submission is aborted.
type ValidationError struct {
	Messages []string
}

// Validation builds a ValidationError from one or more messages.
func Validation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// First returns the first message, which the UI shows in its banner.
func (e *ValidationError) First() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

// ConstraintError reports a file that violates a size or type limit.
type ConstraintError struct {
	File   string
	Reason string
}

func (e *ConstraintError) Error() string {
	if e.File == "" {
		return e.Reason
	}
	return e.File + ": " + e.Reason
}
