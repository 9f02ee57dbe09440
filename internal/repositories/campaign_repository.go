package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"platformBack/internal/models"
)

// CampaignEventRepository keeps campaign clicks and conversions as append-only rows.
type CampaignEventRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewCampaignEventRepository(db *sql.DB, dialect Dialect) *CampaignEventRepository {
	return &CampaignEventRepository{DB: db, Dialect: dialect}
}

func (r *CampaignEventRepository) Record(ctx context.Context, campaignID string, kind models.CampaignEventKind, at time.Time) error {
	query := r.Dialect.Rebind(`INSERT INTO campaign_events (id, campaign_id, kind, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := r.DB.ExecContext(ctx, query, uuid.NewString(), campaignID, string(kind), toMillis(at)); err != nil {
		return fmt.Errorf("insert campaign %s event: %w", kind, err)
	}
	return nil
}

func (r *CampaignEventRepository) Count(ctx context.Context, campaignID string, kind models.CampaignEventKind) (int64, error) {
	var n int64
	query := r.Dialect.Rebind(`SELECT COUNT(*) FROM campaign_events WHERE campaign_id = ? AND kind = ?`)
	if err := r.DB.QueryRowContext(ctx, query, campaignID, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count campaign %s events: %w", kind, err)
	}
	return n, nil
}
