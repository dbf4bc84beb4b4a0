package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/admarket/admarket/internal/model"
)

// AccountRepository handles influencer, sponsor and admin data operations
type AccountRepository struct {
}

// NewAccountRepository creates a new account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// GetInfluencerByEmail returns the influencer with the given email, or nil
// when no row matches.
func (r *AccountRepository) GetInfluencerByEmail(db DBExecutor, email string) (*model.Influencer, error) {
	var influencer model.Influencer
	err := db.Get(&influencer, `SELECT * FROM influencers WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get influencer by email: %w", err)
	}
	return &influencer, nil
}

// GetInfluencerByID returns the influencer with the given id, or nil.
func (r *AccountRepository) GetInfluencerByID(db DBExecutor, id int64) (*model.Influencer, error) {
	var influencer model.Influencer
	err := db.Get(&influencer, `SELECT * FROM influencers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get influencer: %w", err)
	}
	return &influencer, nil
}

// CreateInfluencer inserts an influencer row and sets the generated id.
func (r *AccountRepository) CreateInfluencer(db DBExecutor, influencer *model.Influencer) error {
	query := `
		INSERT INTO influencers (name, email, password, category, niche, reach)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := db.Get(&influencer.ID, query,
		influencer.Name, influencer.Email, influencer.Password,
		influencer.Category, influencer.Niche, influencer.Reach)
	if err != nil {
		return fmt.Errorf("failed to create influencer: %w", err)
	}
	return nil
}

// UpdateInfluencerProfile replaces the mutable profile fields of an influencer.
func (r *AccountRepository) UpdateInfluencerProfile(db DBExecutor, influencer *model.Influencer) error {
	query := `
		UPDATE influencers
		SET name = $1, email = $2, category = $3, niche = $4, reach = $5
		WHERE id = $6
	`
	if _, err := db.Exec(query,
		influencer.Name, influencer.Email, influencer.Category,
		influencer.Niche, influencer.Reach, influencer.ID); err != nil {
		return fmt.Errorf("failed to update influencer profile: %w", err)
	}
	return nil
}

// GetSponsorByEmail returns the sponsor with the given email, or nil.
func (r *AccountRepository) GetSponsorByEmail(db DBExecutor, email string) (*model.Sponsor, error) {
	var sponsor model.Sponsor
	err := db.Get(&sponsor, `SELECT * FROM sponsors WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor by email: %w", err)
	}
	return &sponsor, nil
}

// GetSponsorByID returns the sponsor with the given id, or nil.
func (r *AccountRepository) GetSponsorByID(db DBExecutor, id int64) (*model.Sponsor, error) {
	var sponsor model.Sponsor
	err := db.Get(&sponsor, `SELECT * FROM sponsors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsor: %w", err)
	}
	return &sponsor, nil
}

// CreateSponsor inserts a sponsor row and sets the generated id. New
// sponsors start unapproved and cannot authenticate until an admin
// approves them.
func (r *AccountRepository) CreateSponsor(db DBExecutor, sponsor *model.Sponsor) error {
	query := `
		INSERT INTO sponsors (name, email, password, industry, max_budget)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := db.Get(&sponsor.ID, query,
		sponsor.Name, sponsor.Email, sponsor.Password,
		sponsor.Industry, sponsor.MaxBudget)
	if err != nil {
		return fmt.Errorf("failed to create sponsor: %w", err)
	}
	return nil
}

// SetSponsorApproval updates the is_approved flag of a sponsor.
func (r *AccountRepository) SetSponsorApproval(db DBExecutor, id int64, approved bool) error {
	if _, err := db.Exec(`UPDATE sponsors SET is_approved = $1 WHERE id = $2`, approved, id); err != nil {
		return fmt.Errorf("failed to update sponsor approval: %w", err)
	}
	return nil
}

// GetAdminByEmail returns the admin with the given email, or nil.
func (r *AccountRepository) GetAdminByEmail(db DBExecutor, email string) (*model.Admin, error) {
	var admin model.Admin
	err := db.Get(&admin, `SELECT * FROM admins WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return &admin, nil
}

// ListInfluencers returns every influencer row.
func (r *AccountRepository) ListInfluencers(db DBExecutor) ([]model.Influencer, error) {
	influencers := []model.Influencer{}
	if err := db.Select(&influencers, `SELECT * FROM influencers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list influencers: %w", err)
	}
	return influencers, nil
}

// ListSponsors returns every sponsor row.
func (r *AccountRepository) ListSponsors(db DBExecutor) ([]model.Sponsor, error) {
	sponsors := []model.Sponsor{}
	if err := db.Select(&sponsors, `SELECT * FROM sponsors ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	return sponsors, nil
}
