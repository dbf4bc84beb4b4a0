package model

import "time"

// Campaign represents a row in the campaigns table.
type Campaign struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Budget      int64     `db:"budget" json:"budget"`
	Goals       string    `db:"goals" json:"goals"`
	IsPrivate   bool      `db:"is_private" json:"is_private"`
	IsFlagged   bool      `db:"is_flagged" json:"is_flagged"`
	SponsorID   int64     `db:"sponsor_id" json:"sponsor_id"`
}

// CampaignListing is the denormalized row returned by the filter endpoint.
// Private/flagged markers are only populated for admin callers.
type CampaignListing struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	StartDate   string `db:"start_date" json:"start_date"`
	EndDate     string `db:"end_date" json:"end_date"`
	Budget      int64  `db:"budget" json:"budget"`
	Goals       string `db:"goals" json:"goals"`
	IsPrivate   *bool  `db:"is_private" json:"is_private,omitempty"`
	IsFlagged   *bool  `db:"is_flagged" json:"is_flagged,omitempty"`
	SponsorName string `db:"sponsor_name" json:"sponsor_name"`
}

// CampaignExport is a campaign row plus its ad-request count, used by the
// CSV report job.
type CampaignExport struct {
	Campaign
	TotalAdCount int64 `db:"total_ad_count" json:"total_ad_count"`
}
