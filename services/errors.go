package services

import (
	"fmt"
	"log"
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a time range that is taken for the faculty
// member or facility being booked.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports a missing appointment, facility or user.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// SlotUnavailableError reports a facility slot that is not currently
// offered or is already booked for the requested date.
type SlotUnavailableError struct {
	Slot string
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot %q is not available", e.Slot)
}

// StoreError wraps a failed persistence operation. The underlying cause
// is logged at the call site and kept for unwrapping, but the message
// shown to callers stays generic.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage operation failed: %s", e.Op)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	log.Printf("🔥 Store error during %s: %v", op, err)
	return &StoreError{Op: op, Err: err}
}
