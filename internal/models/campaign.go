package models

type CampaignEventKind string

const (
	CampaignEventClick      CampaignEventKind = "click"
	CampaignEventConversion CampaignEventKind = "conversion"
)

// CampaignAnalytics aggregates the click/conversion counters of a campaign.
type CampaignAnalytics struct {
	CampaignID     string  `json:"campaign_id"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ConversionRate returns conversions/clicks as a percentage, or 0 without clicks.
func ConversionRate(clicks, conversions int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return float64(conversions) * 100 / float64(clicks)
}
