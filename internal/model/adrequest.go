package model

import "time"

// Ad request negotiation statuses.
const (
	AdRequestPending  = "pending"
	AdRequestAccepted = "accepted"
	AdRequestRejected = "rejected"
)

// AllowedAdRequestStatuses lists every status an influencer may set.
var AllowedAdRequestStatuses = []string{AdRequestPending, AdRequestAccepted, AdRequestRejected}

// AdRequest represents a row in the ad_requests table.
type AdRequest struct {
	ID            int64  `db:"id" json:"id"`
	CampaignID    int64  `db:"campaign_id" json:"campaign_id"`
	InfluencerID  int64  `db:"influencer_id" json:"influencer_id"`
	PaymentAmount int64  `db:"payment_amount" json:"payment_amount"`
	Requirements  string `db:"requirements" json:"requirements"`
	Status        string `db:"status" json:"status"`
}

// AdRequestDetail is an ad request joined with its influencer name, shown
// on the campaign detail page.
type AdRequestDetail struct {
	AdRequest
	InfluencerName string `db:"influencer_name" json:"influencer_name"`
}

// AdRequestInvite is the denormalized view an influencer sees of their
// own ad requests.
type AdRequestInvite struct {
	CampaignName      string `db:"campaign_name" json:"campaign_name"`
	CampaignBudget    int64  `db:"campaign_budget" json:"campaign_budget"`
	CampaignGoals     string `db:"campaign_goals" json:"campaign_goals"`
	AdRequirements    string `db:"ad_requirements" json:"ad_requirements"`
	AdBudget          int64  `db:"ad_budget" json:"ad_budget"`
	SponsorName       string `db:"sponsor_name" json:"sponsor_name"`
	Status            string `db:"status" json:"status"`
	CampaignStartDate string `db:"campaign_start_date" json:"campaign_start_date"`
	CampaignEndDate   string `db:"campaign_end_date" json:"campaign_end_date"`
}

// PendingAlert pairs a pending ad request with the influencer to notify.
type PendingAlert struct {
	AdRequestID     int64  `db:"ad_request_id" json:"ad_request_id"`
	InfluencerName  string `db:"influencer_name" json:"influencer_name"`
	InfluencerEmail string `db:"influencer_email" json:"influencer_email"`
}

// AdRequestActivity is an append-only audit entry for an ad request.
type AdRequestActivity struct {
	ID          int64     `db:"id" json:"id"`
	AdRequestID int64     `db:"ad_request_id" json:"ad_request_id"`
	Message     string    `db:"message" json:"message"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
