package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/admarket/admarket/internal/model"
)

// DBExecutor interface for database operations (can be *sqlx.DB or *sqlx.Tx)
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
}

// likeFilterColumns is the allow-list of columns a caller may substring-match
// through the filter endpoint. Anything else in the query string is rejected.
var likeFilterColumns = map[string]bool{
	"name":        true,
	"description": true,
	"goals":       true,
}

// IsFilterableColumn reports whether a column may be substring-matched
// through the filter endpoint.
func IsFilterableColumn(name string) bool {
	return likeFilterColumns[name]
}

// CampaignFilter holds the ad-hoc filter parameters of a listing request.
type CampaignFilter struct {
	StartDate string // campaigns starting on or after this date
	EndDate   string // campaigns ending on or before this date
	BudgetLTE *int64
	BudgetGTE *int64
	Like      map[string]string // substring match, keys checked against likeFilterColumns
}

// CampaignRepository handles campaign data operations
type CampaignRepository struct {
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{}
}

// CreateCampaign inserts a campaign row and sets the generated id.
func (r *CampaignRepository) CreateCampaign(db DBExecutor, campaign *model.Campaign) error {
	query := `
		INSERT INTO campaigns (name, description, start_date, end_date, budget, goals, is_private, sponsor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := db.Get(&campaign.ID, query,
		campaign.Name, campaign.Description, campaign.StartDate, campaign.EndDate,
		campaign.Budget, campaign.Goals, campaign.IsPrivate, campaign.SponsorID)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaign returns the campaign with the given id, or nil.
func (r *CampaignRepository) GetCampaign(db DBExecutor, id int64) (*model.Campaign, error) {
	var campaign model.Campaign
	err := db.Get(&campaign, `SELECT * FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &campaign, nil
}

// FindDuplicate returns the campaign matching (name, start_date, end_date),
// or nil. The triple is unique across campaigns.
func (r *CampaignRepository) FindDuplicate(db DBExecutor, name, startDate, endDate string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := db.Get(&campaign,
		`SELECT * FROM campaigns WHERE name = $1 AND start_date = $2 AND end_date = $3`,
		name, startDate, endDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate campaign: %w", err)
	}
	return &campaign, nil
}

// UpdateCampaign replaces every mutable field of a campaign.
func (r *CampaignRepository) UpdateCampaign(db DBExecutor, campaign *model.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $1, description = $2, start_date = $3, end_date = $4,
		    budget = $5, goals = $6, is_private = $7
		WHERE id = $8
	`
	if _, err := db.Exec(query,
		campaign.Name, campaign.Description, campaign.StartDate, campaign.EndDate,
		campaign.Budget, campaign.Goals, campaign.IsPrivate, campaign.ID); err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

// DeleteCampaign removes a campaign row.
func (r *CampaignRepository) DeleteCampaign(db DBExecutor, id int64) error {
	if _, err := db.Exec(`DELETE FROM campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// ListAll returns every campaign row.
func (r *CampaignRepository) ListAll(db DBExecutor) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	if err := db.Select(&campaigns, `SELECT * FROM campaigns ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// ListBySponsor returns every campaign owned by the given sponsor.
func (r *CampaignRepository) ListBySponsor(db DBExecutor, sponsorID int64) ([]model.Campaign, error) {
	campaigns := []model.Campaign{}
	err := db.Select(&campaigns,
		`SELECT * FROM campaigns WHERE sponsor_id = $1 ORDER BY id`, sponsorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// ListForExport returns a sponsor's campaigns with their ad-request counts.
func (r *CampaignRepository) ListForExport(db DBExecutor, sponsorID int64) ([]model.CampaignExport, error) {
	campaigns := []model.CampaignExport{}
	query := `
		SELECT c.*, (SELECT COUNT(1) FROM ad_requests WHERE campaign_id = c.id) AS total_ad_count
		FROM campaigns c
		WHERE c.sponsor_id = $1
		ORDER BY c.id
	`
	if err := db.Select(&campaigns, query, sponsorID); err != nil {
		return nil, fmt.Errorf("failed to list campaigns for export: %w", err)
	}
	return campaigns, nil
}

// FilterCampaigns returns the role-scoped, filtered listing joined with the
// sponsor name. The WHERE clause is built from parameterized fragments and
// an explicit column allow-list; caller-supplied names never reach the SQL
// text.
func (r *CampaignRepository) FilterCampaigns(db DBExecutor, role string, callerID int64, filter CampaignFilter) ([]model.CampaignListing, error) {
	columns := `c.id, c.name, c.description,
		to_char(c.start_date, 'DD-MM-YYYY') AS start_date,
		to_char(c.end_date, 'DD-MM-YYYY') AS end_date,
		c.budget, c.goals, s.name AS sponsor_name`

	conditions := []string{}
	args := []interface{}{}

	switch role {
	case model.RoleSponsor:
		args = append(args, callerID)
		conditions = append(conditions, fmt.Sprintf("c.sponsor_id = $%d", len(args)), "c.is_flagged = FALSE")
	case model.RoleInfluencer:
		conditions = append(conditions, "c.is_private = FALSE", "c.is_flagged = FALSE")
	case model.RoleAdmin:
		columns += ", c.is_private, c.is_flagged"
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("c.start_date >= $%d", len(args)))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("c.end_date <= $%d", len(args)))
	}
	if filter.BudgetLTE != nil {
		args = append(args, *filter.BudgetLTE)
		conditions = append(conditions, fmt.Sprintf("c.budget <= $%d", len(args)))
	}
	if filter.BudgetGTE != nil {
		args = append(args, *filter.BudgetGTE)
		conditions = append(conditions, fmt.Sprintf("c.budget >= $%d", len(args)))
	}
	likeColumns := make([]string, 0, len(filter.Like))
	for column := range filter.Like {
		if !likeFilterColumns[column] {
			return nil, fmt.Errorf("column %q is not filterable", column)
		}
		likeColumns = append(likeColumns, column)
	}
	sort.Strings(likeColumns)
	for _, column := range likeColumns {
		args = append(args, "%"+filter.Like[column]+"%")
		conditions = append(conditions, fmt.Sprintf("c.%s LIKE $%d", column, len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM campaigns c JOIN sponsors s ON c.sponsor_id = s.id`, columns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.id"

	campaigns := []model.CampaignListing{}
	if err := db.Select(&campaigns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to filter campaigns: %w", err)
	}
	return campaigns, nil
}
