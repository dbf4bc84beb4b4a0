package model

// DashboardCounts is the single aggregate row behind the admin dashboard.
type DashboardCounts struct {
	PublicCampaigns    int64 `db:"public_campaigns" json:"public_campaigns"`
	PrivateCampaigns   int64 `db:"private_campaigns" json:"private_campaigns"`
	PendingAdRequests  int64 `db:"pending_ad_requests" json:"pending_ad_requests"`
	AcceptedAdRequests int64 `db:"accepted_ad_requests" json:"accepted_ad_requests"`
	RejectedAdRequests int64 `db:"rejected_ad_requests" json:"rejected_ad_requests"`
	FlaggedSponsors    int64 `db:"flagged_sponsors" json:"flagged_sponsors"`
	FlaggedInfluencers int64 `db:"flagged_influencers" json:"flagged_influencers"`
	FlaggedCampaigns   int64 `db:"flagged_campaigns" json:"flagged_campaigns"`
	TotalInfluencers   int64 `db:"total_influencers" json:"total_influencers"`
	TotalSponsors      int64 `db:"total_sponsors" json:"total_sponsors"`
}

// PendingSponsor is a sponsor awaiting admin approval.
type PendingSponsor struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// RecentAdRequest is one of the latest ad requests shown on the dashboard.
type RecentAdRequest struct {
	ID             int64  `db:"id" json:"id"`
	CampaignName   string `db:"campaign_name" json:"campaign_name"`
	Requirements   string `db:"requirements" json:"requirements"`
	SponsorName    string `db:"sponsor_name" json:"sponsor_name"`
	Status         string `db:"status" json:"status"`
	InfluencerName string `db:"influencer_name" json:"influencer_name"`
}

// DashboardStat is a single titled counter on the dashboard.
type DashboardStat struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

// Dashboard is the cached admin dashboard payload.
type Dashboard struct {
	Data              []DashboardStat   `json:"data"`
	ToApproveSponsors []PendingSponsor  `json:"to_approve_sponsors"`
	RecentAdRequests  []RecentAdRequest `json:"recent_ad_requests"`
}
