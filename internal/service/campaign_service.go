package service

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/model"
	"github.com/admarket/admarket/internal/repository"
)

const campaignDateLayout = "2006-01-02"

// CampaignInput is the payload of a campaign create or update.
type CampaignInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Budget      *int64 `json:"budget"`
	Goals       string `json:"goals"`
	IsPrivate   bool   `json:"is_private"`
}

// FilterResult is the filtered listing plus the budget range across it.
type FilterResult struct {
	Campaigns []model.CampaignListing `json:"campaigns"`
	MinBudget int64                   `json:"min_budget"`
	MaxBudget int64                   `json:"max_budget"`
}

// CampaignDetail is a campaign with its visible ad requests.
type CampaignDetail struct {
	Campaign   *model.Campaign         `json:"campaign"`
	AdRequests []model.AdRequestDetail `json:"ad_requests"`
}

// CampaignService implements campaign CRUD and the role-scoped listings.
type CampaignService struct {
	postgres      *sqlx.DB
	campaignRepo  *repository.CampaignRepository
	adRequestRepo *repository.AdRequestRepository
}

// NewCampaignService creates a new CampaignService instance
func NewCampaignService(postgres *sqlx.DB) *CampaignService {
	return &CampaignService{
		postgres:      postgres,
		campaignRepo:  repository.NewCampaignRepository(),
		adRequestRepo: repository.NewAdRequestRepository(),
	}
}

// validateInput checks the shared field, date-order and budget rules and
// returns the parsed date range.
func (s *CampaignService) validateInput(input CampaignInput) (start, end time.Time, err error) {
	if input.Name == "" || input.StartDate == "" || input.EndDate == "" || input.Budget == nil || input.Goals == "" {
		return start, end, apperr.Validation("name, description, start_date, end_date, budget, goals are required")
	}
	start, err = time.Parse(campaignDateLayout, input.StartDate)
	if err != nil {
		return start, end, apperr.Validation("start_date must be a valid date in YYYY-MM-DD format")
	}
	end, err = time.Parse(campaignDateLayout, input.EndDate)
	if err != nil {
		return start, end, apperr.Validation("end_date must be a valid date in YYYY-MM-DD format")
	}
	if start.After(end) {
		return start, end, apperr.Validation("start_date must be less than end_date")
	}
	if *input.Budget < 0 {
		return start, end, apperr.Validation("budget must be a positive number")
	}
	return start, end, nil
}

// Create inserts a campaign owned by the calling sponsor.
func (s *CampaignService) Create(ctx context.Context, claims auth.Claims, input CampaignInput) (string, error) {
	start, end, err := s.validateInput(input)
	if err != nil {
		return "", err
	}

	duplicate, err := s.campaignRepo.FindDuplicate(s.postgres, input.Name, input.StartDate, input.EndDate)
	if err != nil {
		return "", err
	}
	if duplicate != nil {
		return "", apperr.Conflict(
			"The campaign name %s already exists for the same start_date %s and end_date %s",
			input.Name, input.StartDate, input.EndDate)
	}

	campaign := &model.Campaign{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   start,
		EndDate:     end,
		Budget:      *input.Budget,
		Goals:       input.Goals,
		IsPrivate:   input.IsPrivate,
		SponsorID:   claims.ID,
	}
	if err := s.campaignRepo.CreateCampaign(s.postgres, campaign); err != nil {
		return "", err
	}
	return "Campaign added successfully", nil
}

// Update replaces every field of a campaign. Only the owning sponsor may
// update it.
func (s *CampaignService) Update(ctx context.Context, claims auth.Claims, campaignID int64, input CampaignInput) (*model.Campaign, error) {
	start, end, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.campaignRepo.GetCampaign(s.postgres, campaignID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Campaign with id %d not found", campaignID)
	}
	if existing.SponsorID != claims.ID {
		return nil, apperr.Forbidden("Unauthorized , you don't have permission to update this campaign")
	}

	duplicate, err := s.campaignRepo.FindDuplicate(s.postgres, input.Name, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if duplicate != nil && duplicate.ID != campaignID {
		return nil, apperr.Conflict(
			"The campaign name %s already exists for the same start_date %s and end_date %s",
			input.Name, input.StartDate, input.EndDate)
	}

	campaign := &model.Campaign{
		ID:          campaignID,
		Name:        input.Name,
		Description: input.Description,
		StartDate:   start,
		EndDate:     end,
		Budget:      *input.Budget,
		Goals:       input.Goals,
		IsPrivate:   input.IsPrivate,
		SponsorID:   existing.SponsorID,
	}
	if err := s.campaignRepo.UpdateCampaign(s.postgres, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Delete removes a campaign. It refuses campaigns with ad requests and
// campaigns the caller does not own.
func (s *CampaignService) Delete(ctx context.Context, claims auth.Claims, campaignID int64) error {
	campaign, err := s.campaignRepo.GetCampaign(s.postgres, campaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return apperr.NotFound("Campaign with id %d not found", campaignID)
	}

	count, err := s.adRequestRepo.CountByCampaign(s.postgres, campaignID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation(
			"Cannot delete campaign with id %d , there are %d ad requests for this campaign",
			campaignID, count)
	}

	if campaign.SponsorID != claims.ID {
		return apperr.Forbidden("Unauthorized , you don't have permission to delete this campaign")
	}

	return s.campaignRepo.DeleteCampaign(s.postgres, campaignID)
}

// ListMine returns the calling sponsor's campaigns.
func (s *CampaignService) ListMine(ctx context.Context, claims auth.Claims) ([]model.Campaign, error) {
	return s.campaignRepo.ListBySponsor(s.postgres, claims.ID)
}

// Filter returns the role-scoped campaign listing for the given query
// parameters, plus the budget range across the filtered set.
func (s *CampaignService) Filter(ctx context.Context, claims auth.Claims, params map[string]string) (*FilterResult, error) {
	filter := repository.CampaignFilter{Like: map[string]string{}}
	for key, value := range params {
		switch key {
		case "start_date":
			filter.StartDate = value
		case "end_date":
			filter.EndDate = value
		case "budget_lte":
			budget, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, apperr.Validation("budget_lte must be a number")
			}
			filter.BudgetLTE = &budget
		case "budget_gte":
			budget, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, apperr.Validation("budget_gte must be a number")
			}
			filter.BudgetGTE = &budget
		default:
			if !repository.IsFilterableColumn(key) {
				return nil, apperr.Validation("%s is not a filterable field", key)
			}
			filter.Like[key] = value
		}
	}

	campaigns, err := s.campaignRepo.FilterCampaigns(s.postgres, claims.Role, claims.ID, filter)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{Campaigns: campaigns}
	for i, campaign := range campaigns {
		if i == 0 || campaign.Budget < result.MinBudget {
			result.MinBudget = campaign.Budget
		}
		if i == 0 || campaign.Budget > result.MaxBudget {
			result.MaxBudget = campaign.Budget
		}
	}
	return result, nil
}

// Get returns a campaign and its ad requests. Influencers only see their
// own ad requests for the campaign.
func (s *CampaignService) Get(ctx context.Context, claims auth.Claims, campaignID int64) (*CampaignDetail, error) {
	campaign, err := s.campaignRepo.GetCampaign(s.postgres, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.NotFound("Campaign with id %d not found", campaignID)
	}

	var influencerScope int64
	if claims.Role == model.RoleInfluencer {
		influencerScope = claims.ID
	}
	adRequests, err := s.adRequestRepo.ListByCampaign(s.postgres, campaignID, influencerScope)
	if err != nil {
		return nil, err
	}

	return &CampaignDetail{Campaign: campaign, AdRequests: adRequests}, nil
}
