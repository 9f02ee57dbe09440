package services

import (
	"context"
	"strings"

	"platformBack/internal/clock"
	"platformBack/internal/models"
)

// CampaignService counts campaign clicks and conversions.
type CampaignService struct {
	Counter CampaignCounter
	Clock   clock.Clock
}

func NewCampaignService(counter CampaignCounter, clk clock.Clock) *CampaignService {
	return &CampaignService{Counter: counter, Clock: clk}
}

func (s *CampaignService) RecordClick(ctx context.Context, campaignID string) error {
	return s.record(ctx, campaignID, models.CampaignEventClick)
}

func (s *CampaignService) RecordConversion(ctx context.Context, campaignID string) error {
	return s.record(ctx, campaignID, models.CampaignEventConversion)
}

func (s *CampaignService) record(ctx context.Context, campaignID string, kind models.CampaignEventKind) error {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return models.MissingField("campaign_id")
	}
	return s.Counter.Record(ctx, campaignID, kind, s.Clock.Now())
}

// GetCampaignAnalytics returns the counts for a campaign. Unknown campaigns
// report zeros.
func (s *CampaignService) GetCampaignAnalytics(ctx context.Context, campaignID string) (models.CampaignAnalytics, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return models.CampaignAnalytics{}, models.MissingField("campaign_id")
	}
	clicks, err := s.Counter.Count(ctx, campaignID, models.CampaignEventClick)
	if err != nil {
		return models.CampaignAnalytics{}, err
	}
	conversions, err := s.Counter.Count(ctx, campaignID, models.CampaignEventConversion)
	if err != nil {
		return models.CampaignAnalytics{}, err
	}
	return models.CampaignAnalytics{
		CampaignID:     campaignID,
		Clicks:         clicks,
		Conversions:    conversions,
		ConversionRate: models.ConversionRate(clicks, conversions),
	}, nil
}
