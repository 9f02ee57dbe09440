package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("models: no matching record found")
	ErrInvalidInput = errors.New("models: invalid input")
	ErrConflict     = errors.New("models: conflicting state")
)

var (
	ErrInvoiceNotFound      = fmt.Errorf("invoice not found: %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription not found: %w", ErrNotFound)
	ErrFlagNotFound         = fmt.Errorf("flag not found: %w", ErrNotFound)

	ErrInvoiceAlreadyPaid       = fmt.Errorf("invoice already paid: %w", ErrConflict)
	ErrFlagAlreadyReviewed      = fmt.Errorf("flag already reviewed: %w", ErrConflict)
	ErrDuplicateRecurringCharge = fmt.Errorf("billing period already charged: %w", ErrConflict)

	ErrInvalidAmount   = fmt.Errorf("amount must be a finite non-negative number: %w", ErrInvalidInput)
	ErrInvalidDuration = fmt.Errorf("ban duration must be at least one day: %w", ErrInvalidInput)
	ErrInvalidDecision = fmt.Errorf("decision must be APPROVED, REJECTED or ESCALATED: %w", ErrInvalidInput)
)

// MissingField reports a required field that was left empty.
func MissingField(name string) error {
	return fmt.Errorf("%s is required: %w", name, ErrInvalidInput)
}
