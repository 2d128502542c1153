package service

import "errors"

// Sentinel errors reported back to the HTTP boundary. Every one of these is
// recoverable: the surrounding transaction has already been rolled back by
// the time the caller sees it.
var (
	// ErrNotFound means the referenced entity does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input shape is bad (missing fields, bad
	// quantities, end before start, ...).
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock means the requested quantity exceeds the
	// variant's available stock, detected at add-to-cart or at checkout.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition means an illegal state-machine event; the order
	// is left unchanged.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConstraintViolation means the entity is still referenced by an
	// order and cannot be deleted.
	ErrConstraintViolation = errors.New("constraint violation")
)
