// Package errs provides standardized error types for the order orchestration
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package covers two groups of errors:
//
// Request-terminal errors, surfaced to the caller unchanged:
//   - ObjectNotFoundError: entity absent, or hidden by tenant isolation
//   - ForbiddenError: role or tenant policy violation
//   - InvalidTransitionError: illegal order status move
//
// Recoverable errors, retried by the detecting component:
//   - ErrNoCapacity: no available worker in the tenant pool
//   - ConflictError: a conditional write lost a race and may be retried
//   - TransientError: store or queue temporarily unavailable
//
// Validation helpers (ValueIsRequiredError, ValueIsInvalidError) support the
// constructor-guarded domain model.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrConflict) for errors.Is checks
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() for classification
package errs
