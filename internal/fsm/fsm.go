package fsm

import (
	"errors"
	"fmt"
)

// Invoice states.
const (
	InvoicePending = "PENDING"
	InvoicePaid    = "PAID"
)

// Content flag states. Every decision is terminal.
const (
	FlagPending   = "PENDING"
	FlagApproved  = "APPROVED"
	FlagRejected  = "REJECTED"
	FlagEscalated = "ESCALATED"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Machine is a named one-way transition table.
type Machine struct {
	name        string
	transitions map[string]map[string]struct{}
}

var Invoice = Machine{
	name: "invoice",
	transitions: map[string]map[string]struct{}{
		InvoicePending: {InvoicePaid: {}},
		InvoicePaid:    {},
	},
}

var Flag = Machine{
	name: "flag",
	transitions: map[string]map[string]struct{}{
		FlagPending:   {FlagApproved: {}, FlagRejected: {}, FlagEscalated: {}},
		FlagApproved:  {},
		FlagRejected:  {},
		FlagEscalated: {},
	},
}

// CanTransition returns whether from -> to is allowed. Staying in a known state
// is always allowed so callers can treat replays as no-ops.
func (m Machine) CanTransition(from, to string) bool {
	allowed, ok := m.transitions[from]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	_, ok = allowed[to]
	return ok
}

// IsTerminal reports whether no further transitions leave state.
func (m Machine) IsTerminal(state string) bool {
	allowed, ok := m.transitions[state]
	return ok && len(allowed) == 0
}

// Check returns ErrInvalidTransition wrapped with context when from -> to is not allowed.
func (m Machine) Check(from, to string) error {
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%s %s -> %s: %w", m.name, from, to, ErrInvalidTransition)
	}
	return nil
}
