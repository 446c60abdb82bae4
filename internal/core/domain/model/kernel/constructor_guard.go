package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when no
// specific error is supplied, so validation always fails with a message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures entities and value objects are only created through
// their designated constructor functions. Embedding a guard in a struct makes
// zero-value instances detectable: the internal flag is only set when the
// object passes through its constructor.
//
// Example:
//
//	type Worker struct {
//	    id    UUID
//	    guard ConstructorGuard
//	}
//
//	func NewWorker(id UUID) (*Worker, error) {
//	    return &Worker{id: id, guard: NewConstructorGuard()}, nil
//	}
//
//	func (w *Worker) Validate() error {
//	    return w.guard.Validate(ErrWorkerIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks an object as properly constructed. Call it from
// every constructor of a guarded type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed objects. For zero values it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
