package scenenav

import (
	"errors"
	"fmt"
)

// Sentinel errors for contract violations. They are raised with panic
// wrapped in a *ContractError; recover and use errors.Is to match them.
var (
	// ErrAlreadyAttached indicates Attach was called while a container is attached.
	ErrAlreadyAttached = errors.New("container already attached")

	// ErrNotAttached indicates Detach was called without a prior Attach.
	ErrNotAttached = errors.New("no container attached")

	// ErrContainerMismatch indicates Detach was called with a container other
	// than the attached one.
	ErrContainerMismatch = errors.New("detached container is not the attached container")

	// ErrSceneDestroyed indicates Attach was called on a scene its navigator
	// has already destroyed.
	ErrSceneDestroyed = errors.New("scene is destroyed")

	// ErrEmptyStack indicates Pop was called on a navigator with no elements.
	ErrEmptyStack = errors.New("pop on empty stack")

	// ErrUnknownKey indicates a restoration key has no registered factory.
	ErrUnknownKey = errors.New("no factory registered for key")

	// ErrMissingFactory indicates saved state was supplied without a factory
	// able to instantiate its elements.
	ErrMissingFactory = errors.New("saved state supplied without a factory")

	// ErrMissingState indicates a restore path was given no state where one is required.
	ErrMissingState = errors.New("required saved state is missing")

	// ErrWrongKind indicates a SavedState node of an unexpected kind.
	ErrWrongKind = errors.New("saved state has the wrong kind")

	// ErrCycle indicates an attempt to nest a SavedState node inside itself.
	ErrCycle = errors.New("saved state cycle")
)

// ContractError describes a caller bug detected by the navigation core.
// These are never returned; they are panicked at the offending call site.
type ContractError struct {
	Op      string // Operation that was misused (e.g., "attach", "pop")
	Subject string // Scene key, navigator id or state key involved
	Err     error  // Underlying sentinel
}

func (e *ContractError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("scenenav: %s %s: %v", e.Op, e.Subject, e.Err)
	}
	return fmt.Sprintf("scenenav: %s: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractError reports whether err is a contract violation.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func violate(op, subject string, err error) {
	panic(&ContractError{Op: op, Subject: subject, Err: err})
}
