package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"platformBack/internal/models"
)

// SubscriptionRepository reads subscriptions and their plans. Advancing
// billing periods belongs to the subscriptions service, not to billing.
type SubscriptionRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSubscriptionRepository(db *sql.DB, dialect Dialect) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db, Dialect: dialect}
}

const subscriptionSelect = `SELECT s.id, s.user_id, s.current_period_end, p.id, p.name, p.price
FROM subscriptions s
JOIN plans p ON p.id = s.plan_id`

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (models.Subscription, error) {
	row := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(subscriptionSelect+` WHERE s.id = ?`), id)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, models.ErrSubscriptionNotFound
	}
	return sub, err
}

// ListDue returns subscriptions whose current period ended by now and that
// have not been invoiced for that period yet, oldest period first.
func (r *SubscriptionRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Subscription, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.Dialect.Rebind(subscriptionSelect + `
WHERE s.current_period_end <= ?
  AND NOT EXISTS (
    SELECT 1 FROM invoices i
    WHERE i.subscription_id = s.id AND i.billing_period_end = s.current_period_end
  )
ORDER BY s.current_period_end ASC, s.id ASC
LIMIT ?`)
	rows, err := r.DB.QueryContext(ctx, query, toMillis(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query due subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func scanSubscription(scanner interface{ Scan(dest ...any) error }) (models.Subscription, error) {
	var (
		sub       models.Subscription
		periodEnd int64
	)
	if err := scanner.Scan(&sub.ID, &sub.UserID, &periodEnd, &sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Price); err != nil {
		return models.Subscription{}, err
	}
	sub.CurrentPeriodEnd = fromMillis(periodEnd)
	return sub, nil
}
