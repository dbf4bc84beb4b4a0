package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/model"
	"github.com/admarket/admarket/internal/repository"
)

// AdRequestInput is the payload of an ad request create or update.
// Sponsors must send every field; influencers may only send
// payment_amount.
type AdRequestInput struct {
	CampaignID    int64  `json:"campaign_id"`
	PaymentAmount int64  `json:"payment_amount"`
	Requirements  string `json:"requirements"`
	InfluencerID  int64  `json:"influencer_id"`
}

// AdRequestService implements the sponsor/influencer negotiation workflow.
// Every change to the negotiable fields appends one activity entry per
// changed field.
type AdRequestService struct {
	postgres      *sqlx.DB
	adRequestRepo *repository.AdRequestRepository
	campaignRepo  *repository.CampaignRepository
	accountRepo   *repository.AccountRepository
}

// NewAdRequestService creates a new AdRequestService instance
func NewAdRequestService(postgres *sqlx.DB) *AdRequestService {
	return &AdRequestService{
		postgres:      postgres,
		adRequestRepo: repository.NewAdRequestRepository(),
		campaignRepo:  repository.NewCampaignRepository(),
		accountRepo:   repository.NewAccountRepository(),
	}
}

// Create inserts a pending ad request against an existing campaign and
// influencer.
func (s *AdRequestService) Create(ctx context.Context, claims auth.Claims, input AdRequestInput) (*model.AdRequest, error) {
	if input.CampaignID == 0 || input.PaymentAmount == 0 || input.Requirements == "" || input.InfluencerID == 0 {
		return nil, apperr.Validation("campaign_id, payment_amount, requirements, influencer_id are required")
	}

	campaign, err := s.campaignRepo.GetCampaign(s.postgres, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.NotFound("Campaign with id %d not found", input.CampaignID)
	}

	influencer, err := s.accountRepo.GetInfluencerByID(s.postgres, input.InfluencerID)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, apperr.NotFound("Influencer with id %d not found", input.InfluencerID)
	}

	adRequest := &model.AdRequest{
		CampaignID:    input.CampaignID,
		InfluencerID:  input.InfluencerID,
		PaymentAmount: input.PaymentAmount,
		Requirements:  input.Requirements,
	}
	if err := s.adRequestRepo.CreateAdRequest(s.postgres, adRequest); err != nil {
		return nil, err
	}
	return adRequest, nil
}

// Update applies the field-ownership rules of the negotiation: sponsors
// replace payment, requirements and the influencer target; influencers may
// only counter the payment amount.
func (s *AdRequestService) Update(ctx context.Context, claims auth.Claims, adRequestID int64, input AdRequestInput) (string, error) {
	switch claims.Role {
	case model.RoleSponsor:
		if input.CampaignID == 0 || input.PaymentAmount == 0 || input.Requirements == "" || input.InfluencerID == 0 {
			return "", apperr.Validation("campaign_id, payment_amount, requirements, influencer_id are required")
		}
	case model.RoleInfluencer:
		if input.PaymentAmount == 0 {
			return "", apperr.Validation("payment_amount is required")
		}
		if input.Requirements != "" || input.InfluencerID != 0 {
			return "", apperr.Forbidden("Influencer can only update payment_amount")
		}
	}

	if input.CampaignID != 0 {
		campaign, err := s.campaignRepo.GetCampaign(s.postgres, input.CampaignID)
		if err != nil {
			return "", err
		}
		if campaign == nil {
			return "", apperr.NotFound("Campaign with id %d not found", input.CampaignID)
		}
	}

	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	adRequest, err := s.adRequestRepo.GetAdRequest(tx, adRequestID)
	if err != nil {
		return "", err
	}
	if adRequest == nil {
		return "", apperr.NotFound("Ad Request with id %d not found", adRequestID)
	}

	var msg string
	activities := []string{}

	switch claims.Role {
	case model.RoleSponsor:
		updated := &model.AdRequest{
			ID:            adRequestID,
			PaymentAmount: input.PaymentAmount,
			Requirements:  input.Requirements,
			InfluencerID:  input.InfluencerID,
		}
		if err := s.adRequestRepo.UpdateTerms(tx, updated); err != nil {
			return "", err
		}
		if adRequest.PaymentAmount != input.PaymentAmount {
			activities = append(activities,
				fmt.Sprintf("Sponsor %s updated the amount to %d", claims.Name, input.PaymentAmount))
		}
		if adRequest.Requirements != input.Requirements {
			activities = append(activities,
				fmt.Sprintf("Sponsor %s updated the requirements", claims.Name))
		}
		msg = "Ad Request updated successfully"
	case model.RoleInfluencer:
		updated := &model.AdRequest{
			ID:            adRequestID,
			PaymentAmount: input.PaymentAmount,
			Requirements:  adRequest.Requirements,
			InfluencerID:  adRequest.InfluencerID,
		}
		if err := s.adRequestRepo.UpdateTerms(tx, updated); err != nil {
			return "", err
		}
		if adRequest.PaymentAmount != input.PaymentAmount {
			activities = append(activities,
				fmt.Sprintf("Influencer %s updated the amount to %d", claims.Name, input.PaymentAmount))
		}
		msg = "Payment Amount updated successfully"
	}

	for _, activity := range activities {
		if err := s.adRequestRepo.AppendActivity(tx, adRequestID, activity); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return msg, nil
}

// UpdateStatus records the influencer's accept/reject decision and logs it.
func (s *AdRequestService) UpdateStatus(ctx context.Context, claims auth.Claims, adRequestID int64, status string) (string, error) {
	allowed := false
	for _, candidate := range model.AllowedAdRequestStatuses {
		if status == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperr.Validation("status must be in %s", strings.Join(model.AllowedAdRequestStatuses, ", "))
	}

	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	adRequest, err := s.adRequestRepo.GetAdRequest(tx, adRequestID)
	if err != nil {
		return "", err
	}
	if adRequest == nil {
		return "", apperr.NotFound("The Ad Request With Id %d not found", adRequestID)
	}

	if err := s.adRequestRepo.UpdateStatus(tx, adRequestID, status); err != nil {
		return "", err
	}
	message := fmt.Sprintf("Influencer %s %s ad request", claims.Name, status)
	if err := s.adRequestRepo.AppendActivity(tx, adRequestID, message); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return fmt.Sprintf("Ad Request Status Updated To %s successfully", status), nil
}

// Delete removes an ad request and its activity log. Only the sponsor
// owning the campaign may delete it.
func (s *AdRequestService) Delete(ctx context.Context, claims auth.Claims, adRequestID int64) error {
	tx, err := s.postgres.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	adRequest, err := s.adRequestRepo.GetAdRequest(tx, adRequestID)
	if err != nil {
		return err
	}
	if adRequest == nil {
		return apperr.NotFound("Ad Request with id %d not found", adRequestID)
	}

	campaign, err := s.campaignRepo.GetCampaign(tx, adRequest.CampaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return apperr.NotFound("Campaign with id %d not found", adRequest.CampaignID)
	}
	if campaign.SponsorID != claims.ID {
		return apperr.Forbidden("Unauthorized , you don't have permission to delete this ad request")
	}

	if err := s.adRequestRepo.DeleteAdRequest(tx, adRequestID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListMine returns the denormalized view of the calling influencer's ad
// requests.
func (s *AdRequestService) ListMine(ctx context.Context, claims auth.Claims) ([]model.AdRequestInvite, error) {
	return s.adRequestRepo.ListInvites(s.postgres, claims.ID)
}

// Activities returns the activity log of an ad request, most recent first.
func (s *AdRequestService) Activities(ctx context.Context, adRequestID int64) ([]model.AdRequestActivity, error) {
	return s.adRequestRepo.ListActivities(s.postgres, adRequestID)
}
