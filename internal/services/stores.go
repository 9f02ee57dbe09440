package services

import (
	"context"
	"time"

	"platformBack/internal/models"
)

// InvoiceStore is the slice of the persistence gateway the invoice lifecycle needs.
type InvoiceStore interface {
	Create(ctx context.Context, inv models.Invoice) error
	GetByID(ctx context.Context, id string) (models.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]models.Invoice, error)
	MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) (bool, error)
}

type SubscriptionStore interface {
	GetByID(ctx context.Context, id string) (models.Subscription, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.Subscription, error)
}

type FlagStore interface {
	Create(ctx context.Context, f models.ContentFlag) error
	GetByID(ctx context.Context, id string) (models.ContentFlag, error)
	ListPending(ctx context.Context) ([]models.ContentFlag, error)
	CountPending(ctx context.Context) (int, error)
	Review(ctx context.Context, id string, decision models.Decision, moderatorID, notes string, reviewedAt time.Time) (bool, error)
}

type BanStore interface {
	Create(ctx context.Context, b models.UserBan) error
	ListByUser(ctx context.Context, userID string) ([]models.UserBan, error)
}

// CampaignCounter is implemented by the SQL event log and by the Redis counters.
type CampaignCounter interface {
	Record(ctx context.Context, campaignID string, kind models.CampaignEventKind, at time.Time) error
	Count(ctx context.Context, campaignID string, kind models.CampaignEventKind) (int64, error)
}

// ModerationNotifier receives moderation events for the live feed.
type ModerationNotifier interface {
	Notify(eventType string, payload any)
}

const (
	EventFlagCreated  = "flag_created"
	EventFlagReviewed = "flag_reviewed"
	EventUserBanned   = "user_banned"
)
