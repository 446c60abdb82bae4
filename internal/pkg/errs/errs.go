package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used for classification with errors.Is. Typed errors below
// unwrap to one of these, so callers can branch on category without knowing
// the concrete type.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoCapacity        = errors.New("no available worker")
	ErrConflict          = errors.New("conditional write conflict")
	ErrTransient         = errors.New("transient infrastructure failure")
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
)

// IsRetryable reports whether the error names a condition that can clear on
// its own: an exhausted worker pool or a transient infrastructure failure.
// Validation and authorization failures are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoCapacity) || errors.Is(err, ErrTransient)
}

// sanitize collapses newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates an entity could not be found. It is also the
// error returned for cross-tenant lookups: a caller from another tenant must
// not be able to distinguish "exists elsewhere" from "does not exist".
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ForbiddenError indicates the actor's role or tenant does not permit the
// attempted action.
type ForbiddenError struct {
	Action string
	Role   string
	Cause  error
}

func NewForbiddenError(action, role string) *ForbiddenError {
	return &ForbiddenError{Action: action, Role: role}
}

func NewForbiddenErrorWithCause(action, role string, cause error) *ForbiddenError {
	return &ForbiddenError{Action: action, Role: role, Cause: cause}
}

func (e *ForbiddenError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: role %s may not %s (cause: %s)",
			ErrForbidden, e.Role, e.Action, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: role %s may not %s", ErrForbidden, e.Role, e.Action))
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidTransitionError indicates a requested order status change is not a
// legal successor of the current status.
type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NoCapacityError indicates the tenant's worker pool could not supply a
// worker: either no candidate was available or every claim lost its race
// within the retry bound.
type NoCapacityError struct {
	Reason string
}

func NewNoCapacityError(reason string) *NoCapacityError {
	return &NoCapacityError{Reason: reason}
}

func (e *NoCapacityError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s", ErrNoCapacity, e.Reason))
}

func (e *NoCapacityError) Unwrap() error {
	return ErrNoCapacity
}

// ConflictError indicates a conditional update found the record changed since
// it was read. The operation is safe to retry against fresh state.
type ConflictError struct {
	ParamName string
	ID        any
}

func NewConflictError(paramName string, id any) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id}
}

func (e *ConflictError) Error() string {
	return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrConflict, e.ParamName, e.ID))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// TransientError wraps an infrastructure failure that is expected to clear on
// retry. The retry envelope outside the core handles backoff.
type TransientError struct {
	Op    string
	Cause error
}

func NewTransientError(op string, cause error) *TransientError {
	return &TransientError{Op: op, Cause: cause}
}

func (e *TransientError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrTransient, e.Op, e.Cause))
}

func (e *TransientError) Unwrap() error {
	return ErrTransient
}

// ValueIsRequiredError indicates a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a value is present but not acceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}
