package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these so the
// transport layer can map it with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrConflict        = errors.New("conflict")
	ErrUnknownAction   = errors.New("unknown action")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrPaymentFailed   = errors.New("payment failed")
)

var (
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrTaskNotFound  = fmt.Errorf("task %w", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)

	ErrOrderExists  = fmt.Errorf("%w: order already exists for task", ErrConflict)
	ErrReviewExists = fmt.Errorf("%w: task already reviewed by this user", ErrConflict)

	// ErrStaleState is returned when a conditional update matched no document:
	// another request moved the entity first.
	ErrStaleState = fmt.Errorf("%w: state changed concurrently", ErrConflict)
)
