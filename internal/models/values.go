package models

import (
	"math"
	"strings"
	"time"
)

// Amount is a money value that is known to be finite and non-negative.
type Amount struct {
	v float64
}

// NewAmount validates v.
func NewAmount(v float64) (Amount, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{v: v}, nil
}

// Float64 returns the raw value.
func (a Amount) Float64() float64 { return a.v }

// BanDuration is a ban length in whole days, always positive.
type BanDuration struct {
	days int
}

// NewBanDuration validates days.
func NewBanDuration(days int) (BanDuration, error) {
	if days <= 0 {
		return BanDuration{}, ErrInvalidDuration
	}
	return BanDuration{days: days}, nil
}

func (d BanDuration) Days() int { return d.days }

// Duration converts the ban length to a time.Duration of days*24h.
func (d BanDuration) Duration() time.Duration {
	return time.Duration(d.days) * 24 * time.Hour
}

// Decision is the outcome a moderator assigns to a flag.
type Decision string

const (
	DecisionApproved  Decision = "APPROVED"
	DecisionRejected  Decision = "REJECTED"
	DecisionEscalated Decision = "ESCALATED"
)

// ParseDecision normalises raw and checks it against the known decisions.
func ParseDecision(raw string) (Decision, error) {
	switch d := Decision(strings.ToUpper(strings.TrimSpace(raw))); d {
	case DecisionApproved, DecisionRejected, DecisionEscalated:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}
