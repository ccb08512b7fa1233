package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrorResponse is the JSON error envelope for every failed request.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrNotFound marks lookups that matched no record. Store implementations wrap
// it so callers can branch with errors.Is.
var ErrNotFound = errors.New("record not found")

// ValidationError is a user-correctable input failure. Its message is echoed
// verbatim to the caller with a 400 status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// BackendError wraps a failure reported by the record store. The underlying
// message is passed through to the caller unsanitized, mirroring the behavior
// of the hosted backend this service fronts.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// UploadError wraps a blob store write failure. Callers decide whether it is
// fatal: record creation tolerates it, record update does not.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
