package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"platformBack/internal/models"
)

// CampaignRedisCounter keeps campaign counters as Redis integers. Event
// timestamps are not retained, only totals.
type CampaignRedisCounter struct {
	rdb *redis.Client
}

func NewCampaignRedisCounter(rdb *redis.Client) *CampaignRedisCounter {
	return &CampaignRedisCounter{rdb: rdb}
}

func counterKey(campaignID string, kind models.CampaignEventKind) string {
	switch kind {
	case models.CampaignEventClick:
		return fmt.Sprintf("campaign:%s:clicks", campaignID)
	case models.CampaignEventConversion:
		return fmt.Sprintf("campaign:%s:conversions", campaignID)
	default:
		return fmt.Sprintf("campaign:%s:%s", campaignID, kind)
	}
}

func (c *CampaignRedisCounter) Record(ctx context.Context, campaignID string, kind models.CampaignEventKind, _ time.Time) error {
	return c.rdb.Incr(ctx, counterKey(campaignID, kind)).Err()
}

func (c *CampaignRedisCounter) Count(ctx context.Context, campaignID string, kind models.CampaignEventKind) (int64, error) {
	n, err := c.rdb.Get(ctx, counterKey(campaignID, kind)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read campaign counter: %w", err)
	}
	return n, nil
}
