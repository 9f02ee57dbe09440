package fsm

import (
	"errors"
	"testing"
)

func TestInvoiceTransitions(t *testing.T) {
	if !Invoice.CanTransition(InvoicePending, InvoicePaid) {
		t.Fatal("expected PENDING -> PAID to be allowed")
	}
	if Invoice.CanTransition(InvoicePaid, InvoicePending) {
		t.Fatal("unexpected PAID -> PENDING allowed")
	}
	if !Invoice.CanTransition(InvoicePaid, InvoicePaid) {
		t.Fatal("expected PAID replay to be allowed")
	}
	if !Invoice.IsTerminal(InvoicePaid) || Invoice.IsTerminal(InvoicePending) {
		t.Fatal("terminal states mismatch")
	}
}

func TestFlagTransitions(t *testing.T) {
	for _, to := range []string{FlagApproved, FlagRejected, FlagEscalated} {
		if !Flag.CanTransition(FlagPending, to) {
			t.Fatalf("expected PENDING -> %s to be allowed", to)
		}
		if Flag.CanTransition(to, FlagPending) {
			t.Fatalf("unexpected %s -> PENDING allowed", to)
		}
	}
	if Flag.CanTransition(FlagApproved, FlagRejected) {
		t.Fatal("unexpected APPROVED -> REJECTED allowed")
	}
	if Flag.CanTransition("BOGUS", "BOGUS") {
		t.Fatal("unknown states must not transition")
	}
	if err := Flag.Check(FlagRejected, FlagApproved); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
