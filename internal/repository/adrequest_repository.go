package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/admarket/admarket/internal/model"
)

// AdRequestRepository handles ad request and activity log data operations
type AdRequestRepository struct {
}

// NewAdRequestRepository creates a new ad request repository
func NewAdRequestRepository() *AdRequestRepository {
	return &AdRequestRepository{}
}

// CreateAdRequest inserts an ad request row with status pending and sets
// the generated id.
func (r *AdRequestRepository) CreateAdRequest(db DBExecutor, adRequest *model.AdRequest) error {
	query := `
		INSERT INTO ad_requests (campaign_id, influencer_id, payment_amount, requirements, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	adRequest.Status = model.AdRequestPending
	err := db.Get(&adRequest.ID, query,
		adRequest.CampaignID, adRequest.InfluencerID,
		adRequest.PaymentAmount, adRequest.Requirements, adRequest.Status)
	if err != nil {
		return fmt.Errorf("failed to create ad request: %w", err)
	}
	return nil
}

// GetAdRequest returns the ad request with the given id, or nil.
func (r *AdRequestRepository) GetAdRequest(db DBExecutor, id int64) (*model.AdRequest, error) {
	var adRequest model.AdRequest
	err := db.Get(&adRequest, `SELECT * FROM ad_requests WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ad request: %w", err)
	}
	return &adRequest, nil
}

// UpdateTerms replaces the negotiable fields of an ad request. Sponsors may
// move the request to another influencer; influencers only reach this with
// a payment change.
func (r *AdRequestRepository) UpdateTerms(db DBExecutor, adRequest *model.AdRequest) error {
	query := `
		UPDATE ad_requests
		SET payment_amount = $1, requirements = $2, influencer_id = $3
		WHERE id = $4
	`
	if _, err := db.Exec(query,
		adRequest.PaymentAmount, adRequest.Requirements,
		adRequest.InfluencerID, adRequest.ID); err != nil {
		return fmt.Errorf("failed to update ad request: %w", err)
	}
	return nil
}

// UpdateStatus sets the negotiation status of an ad request.
func (r *AdRequestRepository) UpdateStatus(db DBExecutor, id int64, status string) error {
	if _, err := db.Exec(`UPDATE ad_requests SET status = $1 WHERE id = $2`, status, id); err != nil {
		return fmt.Errorf("failed to update ad request status: %w", err)
	}
	return nil
}

// DeleteAdRequest removes an ad request and its activity log in one shot.
// Activities cascade so no orphaned audit rows remain.
func (r *AdRequestRepository) DeleteAdRequest(db DBExecutor, id int64) error {
	if _, err := db.Exec(`DELETE FROM ad_request_activities WHERE ad_request_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ad request activities: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM ad_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete ad request: %w", err)
	}
	return nil
}

// CountByCampaign returns the number of ad requests referencing a campaign.
func (r *AdRequestRepository) CountByCampaign(db DBExecutor, campaignID int64) (int64, error) {
	var count int64
	err := db.Get(&count, `SELECT COUNT(1) FROM ad_requests WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return 0, fmt.Errorf("failed to count ad requests: %w", err)
	}
	return count, nil
}

// ListByCampaign returns the ad requests of a campaign joined with their
// influencer names. A non-zero influencerID restricts the result to that
// influencer's own requests.
func (r *AdRequestRepository) ListByCampaign(db DBExecutor, campaignID, influencerID int64) ([]model.AdRequestDetail, error) {
	adRequests := []model.AdRequestDetail{}
	query := `
		SELECT a.*, (SELECT name FROM influencers WHERE id = a.influencer_id) AS influencer_name
		FROM ad_requests a
		WHERE a.campaign_id = $1
	`
	args := []interface{}{campaignID}
	if influencerID != 0 {
		query += ` AND a.influencer_id = $2`
		args = append(args, influencerID)
	}
	if err := db.Select(&adRequests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list ad requests: %w", err)
	}
	return adRequests, nil
}

// ListInvites returns the denormalized view of an influencer's ad requests.
func (r *AdRequestRepository) ListInvites(db DBExecutor, influencerID int64) ([]model.AdRequestInvite, error) {
	invites := []model.AdRequestInvite{}
	query := `
		SELECT c.name AS campaign_name, c.budget AS campaign_budget,
		       c.goals AS campaign_goals,
		       ar.requirements AS ad_requirements,
		       ar.payment_amount AS ad_budget,
		       s.name AS sponsor_name,
		       ar.status,
		       to_char(c.start_date, 'DD-MM-YYYY HH24:MI:SS') AS campaign_start_date,
		       to_char(c.end_date, 'DD-MM-YYYY HH24:MI:SS') AS campaign_end_date
		FROM ad_requests ar
		JOIN campaigns c ON ar.campaign_id = c.id
		JOIN sponsors s ON c.sponsor_id = s.id
		WHERE ar.influencer_id = $1
	`
	if err := db.Select(&invites, query, influencerID); err != nil {
		return nil, fmt.Errorf("failed to list ad request invites: %w", err)
	}
	return invites, nil
}

// AppendActivity records one append-only audit entry for an ad request.
func (r *AdRequestRepository) AppendActivity(db DBExecutor, adRequestID int64, message string) error {
	query := `INSERT INTO ad_request_activities (ad_request_id, message) VALUES ($1, $2)`
	if _, err := db.Exec(query, adRequestID, message); err != nil {
		return fmt.Errorf("failed to append ad request activity: %w", err)
	}
	return nil
}

// ListActivities returns the activity messages of an ad request, most
// recent first.
func (r *AdRequestRepository) ListActivities(db DBExecutor, adRequestID int64) ([]model.AdRequestActivity, error) {
	activities := []model.AdRequestActivity{}
	query := `
		SELECT * FROM ad_request_activities
		WHERE ad_request_id = $1
		ORDER BY id DESC
	`
	if err := db.Select(&activities, query, adRequestID); err != nil {
		return nil, fmt.Errorf("failed to list ad request activities: %w", err)
	}
	return activities, nil
}

// ListPendingWithInfluencers returns every pending ad request joined with
// the influencer to notify, used by the daily alert job.
func (r *AdRequestRepository) ListPendingWithInfluencers(db DBExecutor) ([]model.PendingAlert, error) {
	alerts := []model.PendingAlert{}
	query := `
		SELECT ar.id AS ad_request_id,
		       i.name AS influencer_name, i.email AS influencer_email
		FROM ad_requests ar
		JOIN influencers i ON ar.influencer_id = i.id
		WHERE ar.status = $1
	`
	if err := db.Select(&alerts, query, model.AdRequestPending); err != nil {
		return nil, fmt.Errorf("failed to list pending ad requests: %w", err)
	}
	return alerts, nil
}

// SumPaymentsBySponsor returns the total payment amount across a sponsor's
// ad requests, used by the monthly activity report.
func (r *AdRequestRepository) SumPaymentsBySponsor(db DBExecutor, sponsorID int64) (int64, error) {
	var total int64
	query := `
		SELECT COALESCE(SUM(ar.payment_amount), 0)
		FROM ad_requests ar
		JOIN campaigns c ON ar.campaign_id = c.id
		WHERE c.sponsor_id = $1
	`
	if err := db.Get(&total, query, sponsorID); err != nil {
		return 0, fmt.Errorf("failed to sum ad request payments: %w", err)
	}
	return total, nil
}
