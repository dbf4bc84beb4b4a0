package repository

import (
	"fmt"

	"github.com/admarket/admarket/internal/model"
)

// DashboardRepository produces the admin dashboard aggregates
type DashboardRepository struct {
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository() *DashboardRepository {
	return &DashboardRepository{}
}

// GetCounts runs the single aggregate query behind the dashboard tiles.
func (r *DashboardRepository) GetCounts(db DBExecutor) (*model.DashboardCounts, error) {
	var counts model.DashboardCounts
	query := `
		SELECT
		(SELECT COUNT(1) FROM campaigns WHERE is_private = FALSE) AS public_campaigns,
		(SELECT COUNT(1) FROM campaigns WHERE is_private = TRUE) AS private_campaigns,
		(SELECT COUNT(1) FROM ad_requests WHERE status = 'pending') AS pending_ad_requests,
		(SELECT COUNT(1) FROM ad_requests WHERE status = 'accepted') AS accepted_ad_requests,
		(SELECT COUNT(1) FROM ad_requests WHERE status = 'rejected') AS rejected_ad_requests,
		(SELECT COUNT(1) FROM sponsors WHERE is_flagged = TRUE) AS flagged_sponsors,
		(SELECT COUNT(1) FROM influencers WHERE is_flagged = TRUE) AS flagged_influencers,
		(SELECT COUNT(1) FROM campaigns WHERE is_flagged = TRUE) AS flagged_campaigns,
		(SELECT COUNT(1) FROM influencers) AS total_influencers,
		(SELECT COUNT(1) FROM sponsors) AS total_sponsors
	`
	if err := db.Get(&counts, query); err != nil {
		return nil, fmt.Errorf("failed to get dashboard counts: %w", err)
	}
	return &counts, nil
}

// ListPendingSponsors returns the sponsors awaiting approval.
func (r *DashboardRepository) ListPendingSponsors(db DBExecutor) ([]model.PendingSponsor, error) {
	sponsors := []model.PendingSponsor{}
	query := `SELECT id, name, email FROM sponsors WHERE is_approved = FALSE`
	if err := db.Select(&sponsors, query); err != nil {
		return nil, fmt.Errorf("failed to list pending sponsors: %w", err)
	}
	return sponsors, nil
}

// ListRecentAdRequests returns the latest ad requests joined across
// campaign, sponsor and influencer.
func (r *DashboardRepository) ListRecentAdRequests(db DBExecutor, limit int) ([]model.RecentAdRequest, error) {
	adRequests := []model.RecentAdRequest{}
	query := `
		SELECT ar.id, c.name AS campaign_name, ar.requirements,
		       s.name AS sponsor_name, ar.status, i.name AS influencer_name
		FROM ad_requests ar
		JOIN campaigns c ON ar.campaign_id = c.id
		JOIN sponsors s ON c.sponsor_id = s.id
		JOIN influencers i ON ar.influencer_id = i.id
		ORDER BY ar.id DESC
		LIMIT $1
	`
	if err := db.Select(&adRequests, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent ad requests: %w", err)
	}
	return adRequests, nil
}
