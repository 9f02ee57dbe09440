package models

import "time"

type FlagStatus string

const FlagStatusPending FlagStatus = "PENDING"

// ContentFlag is a user report against a piece of content.
// Moderator fields stay nil until the flag leaves PENDING.
type ContentFlag struct {
	ID             string     `json:"id"`
	ContentID      string     `json:"content_id"`
	ContentType    string     `json:"content_type"`
	ReportedBy     string     `json:"reported_by"`
	Reason         string     `json:"reason"`
	Status         FlagStatus `json:"status"`
	ModeratorID    *string    `json:"moderator_id,omitempty"`
	ModeratorNotes *string    `json:"moderator_notes,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (f ContentFlag) IsPending() bool {
	return f.Status == FlagStatusPending
}

// UserBan is a time-bound ban. Several bans may overlap for one user.
type UserBan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Reason      string    `json:"reason"`
	BannedUntil time.Time `json:"banned_until"`
	CreatedAt   time.Time `json:"created_at"`
}
