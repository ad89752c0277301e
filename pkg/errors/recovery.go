package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error recovered from a panic, typically a gonum/mat
// shape panic raised inside a user supplied estimator.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}
	// StackTrace is the stack at the time of recovery
	StackTrace string
	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is deferred with a pointer to the named error result of the
// enclosing function and turns a panic into a *PanicError.
//
// Usage:
//
//	func CrossValidation(...) (score float64, err error) {
//	    defer Recover(&err, "CrossValidation")
//	    ...
//	}
//
// If the function already set an error, the panic information wraps it.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute runs fn and converts any panic into an error.
//
// Example:
//
//	err := SafeExecute("fold 3", func() error {
//	    return estimator.Fit(XTrain, yTrain)
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
