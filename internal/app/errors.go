package app

import "errors"

var (
	// ErrNoSlot indicates a load from a slot that holds no snapshot.
	ErrNoSlot = errors.New("app: slot is empty")

	// ErrClosed indicates an operation on a shut-down application.
	ErrClosed = errors.New("app: application closed")
)
