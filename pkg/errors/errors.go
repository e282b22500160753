// SPDX-License-Identifier: Apache-2.0
// Package errors provides typed error handling with rich context for the
// HHAC council.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies council errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeEvaluation indicates a role's evaluation failed. Callers convert
	// these into fallback responses; they never cross the council boundary.
	CodeEvaluation ErrorCode = "EVALUATION_FAILURE"

	// CodeJournal indicates a journal store error.
	CodeJournal ErrorCode = "JOURNAL_ERROR"

	// CodeConfig indicates configuration could not be loaded.
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// CodeTimeout indicates an operation exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeContextLost indicates the caller's context was canceled mid-flight.
	CodeContextLost ErrorCode = "CONTEXT_LOST"
)

// CouncilError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type CouncilError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *CouncilError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *CouncilError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *CouncilError) MarshalJSON() ([]byte, error) {
	type Alias CouncilError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new CouncilError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *CouncilError {
	return &CouncilError{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *CouncilError) WithContext(key string, value interface{}) *CouncilError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *CouncilError) WithRecoverable(recoverable bool) *CouncilError {
	e.Recoverable = recoverable
	return e
}

// AsCouncilError attempts to convert an error to a CouncilError.
// Returns the error as CouncilError if it is one, or wraps it otherwise.
func AsCouncilError(err error) *CouncilError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CouncilError); ok {
		return ce
	}
	return New(CodeInternal, "wrapped error", err)
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *CouncilError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}
