package models

import "time"

// Plan is the priced product a subscription is attached to.
type Plan struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Subscription is owned by the subscriptions service; billing only reads it.
type Subscription struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	Plan             Plan      `json:"plan"`
}

// RecurringBillingQuote is derived from a subscription and never stored.
type RecurringBillingQuote struct {
	SubscriptionID  string    `json:"subscription_id"`
	NextBillingDate time.Time `json:"next_billing_date"`
	Amount          float64   `json:"amount"`
}
