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

// RegisterInput is the payload of a registration attempt.
type RegisterInput struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	// Influencer fields
	Category string `json:"category"`
	Niche    string `json:"niche"`
	Reach    int64  `json:"reach"`

	// Sponsor fields
	Industry  string `json:"industry"`
	MaxBudget int64  `json:"max_budget"`
}

// LoginInput is the payload of a login attempt.
type LoginInput struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the authenticated identity back to the handler.
type LoginResult struct {
	ID      int64
	Message string
	Claims  auth.Claims
}

// AccountService implements registration, login and profile management
// for the three account roles.
type AccountService struct {
	postgres    *sqlx.DB
	accountRepo *repository.AccountRepository
}

// NewAccountService creates a new AccountService instance
func NewAccountService(postgres *sqlx.DB) *AccountService {
	return &AccountService{
		postgres:    postgres,
		accountRepo: repository.NewAccountRepository(),
	}
}

// validateCredentials applies the shared email and password format rules.
func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return apperr.Validation("Invalid email format")
	}
	if len(password) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	if len(password) > 12 {
		return apperr.Validation("Password must be at most 12 characters")
	}
	return nil
}

func roleAllowed(role string) bool {
	for _, allowed := range model.AvailableRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// Register creates an influencer or sponsor account. Admin accounts are
// pre-provisioned and not self-registrable.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	if input.Role == "" || input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperr.Validation("role,name,email,password are required")
	}
	if input.Role != model.RoleInfluencer && input.Role != model.RoleSponsor {
		return nil, apperr.Validation("Invalid role , must be in %s", strings.Join([]string{model.RoleInfluencer, model.RoleSponsor}, ", "))
	}
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}

	digest, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	fullRole := model.FullRole(input.Role)

	var id int64
	switch input.Role {
	case model.RoleInfluencer:
		if input.Category == "" || input.Niche == "" || input.Reach == 0 {
			return nil, apperr.Validation("category, niche and reach are required for influencers")
		}
		existing, err := s.accountRepo.GetInfluencerByEmail(s.postgres, input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Influencer with email %s already exists", input.Email)
		}
		influencer := &model.Influencer{
			Name:     input.Name,
			Email:    input.Email,
			Password: digest,
			Category: input.Category,
			Niche:    input.Niche,
			Reach:    input.Reach,
		}
		if err := s.accountRepo.CreateInfluencer(s.postgres, influencer); err != nil {
			return nil, err
		}
		id = influencer.ID
	case model.RoleSponsor:
		if input.Industry == "" || input.MaxBudget == 0 {
			return nil, apperr.Validation("industry and max_budget are required for sponsors")
		}
		existing, err := s.accountRepo.GetSponsorByEmail(s.postgres, input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Sponsor with email %s already exists", input.Email)
		}
		sponsor := &model.Sponsor{
			Name:      input.Name,
			Email:     input.Email,
			Password:  digest,
			Industry:  input.Industry,
			MaxBudget: input.MaxBudget,
		}
		if err := s.accountRepo.CreateSponsor(s.postgres, sponsor); err != nil {
			return nil, err
		}
		id = sponsor.ID
	}

	return &LoginResult{
		ID:      id,
		Message: fmt.Sprintf("%s registered successfully", fullRole),
		Claims: auth.Claims{
			Role:     input.Role,
			FullRole: fullRole,
			Email:    input.Email,
			ID:       id,
			Name:     input.Name,
		},
	}, nil
}

// Login authenticates an account of the given role. Flagged non-admin
// accounts and unapproved sponsors are refused.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if !roleAllowed(input.Role) {
		return nil, apperr.Validation("Invalid role , must be in %s", strings.Join(model.AvailableRoles, ", "))
	}
	if err := validateCredentials(input.Email, input.Password); err != nil {
		return nil, err
	}

	fullRole := model.FullRole(input.Role)

	var (
		id        int64
		name      string
		digest    string
		flagged   bool
		unapprove bool
	)

	switch input.Role {
	case model.RoleInfluencer:
		influencer, err := s.accountRepo.GetInfluencerByEmail(s.postgres, input.Email)
		if err != nil {
			return nil, err
		}
		if influencer == nil {
			return nil, apperr.NotFound("%s with email %s not found", fullRole, input.Email)
		}
		id, name, digest, flagged = influencer.ID, influencer.Name, influencer.Password, influencer.IsFlagged
	case model.RoleSponsor:
		sponsor, err := s.accountRepo.GetSponsorByEmail(s.postgres, input.Email)
		if err != nil {
			return nil, err
		}
		if sponsor == nil {
			return nil, apperr.NotFound("%s with email %s not found", fullRole, input.Email)
		}
		id, name, digest, flagged = sponsor.ID, sponsor.Name, sponsor.Password, sponsor.IsFlagged
		unapprove = !sponsor.IsApproved
	case model.RoleAdmin:
		admin, err := s.accountRepo.GetAdminByEmail(s.postgres, input.Email)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, apperr.NotFound("%s with email %s not found", fullRole, input.Email)
		}
		id, name, digest = admin.ID, admin.Name, admin.Password
	}

	if !auth.CheckPassword(input.Password, digest) {
		return nil, apperr.Validation("Invalid password")
	}
	if input.Role != model.RoleAdmin && flagged {
		return nil, apperr.Forbidden("You have been flagged by the admin for your actions , please contact support team")
	}
	if input.Role == model.RoleSponsor && unapprove {
		return nil, apperr.Forbidden("You cannot login until admin approves your profile , please be patient or contact support team")
	}

	return &LoginResult{
		ID:      id,
		Message: fmt.Sprintf("Welcome back %s %s", fullRole, input.Email),
		Claims: auth.Claims{
			Role:     input.Role,
			FullRole: fullRole,
			Email:    input.Email,
			ID:       id,
			Name:     name,
		},
	}, nil
}

// Profile is an influencer profile with an ownership marker.
type Profile struct {
	User *model.Influencer `json:"user"`
	IsMe bool              `json:"is_me"`
}

// GetProfile returns an influencer profile, marking whether it belongs to
// the caller.
func (s *AccountService) GetProfile(ctx context.Context, claims auth.Claims, id int64) (*Profile, error) {
	influencer, err := s.accountRepo.GetInfluencerByID(s.postgres, id)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, apperr.NotFound("Influencer with id %d not found", id)
	}
	return &Profile{
		User: influencer,
		IsMe: claims.ID == id && claims.Email == influencer.Email,
	}, nil
}

// ProfileUpdateInput is the payload of an influencer profile update.
type ProfileUpdateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Niche    string `json:"niche"`
	Reach    int64  `json:"reach"`
}

// UpdateProfile replaces the caller's influencer profile fields. The email
// must not collide with another influencer.
func (s *AccountService) UpdateProfile(ctx context.Context, claims auth.Claims, input ProfileUpdateInput) error {
	if input.Name == "" || input.Email == "" {
		return apperr.Validation("name,email are required")
	}
	if !strings.Contains(input.Email, "@") || !strings.Contains(input.Email, ".") {
		return apperr.Validation("Invalid email format")
	}
	if input.Category == "" || input.Niche == "" || input.Reach == 0 {
		return apperr.Validation("category, niche and reach are required for influencers")
	}

	existing, err := s.accountRepo.GetInfluencerByEmail(s.postgres, input.Email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != claims.ID {
		return apperr.Conflict("Influencer with email %s already exists", input.Email)
	}

	influencer := &model.Influencer{
		ID:       claims.ID,
		Name:     input.Name,
		Email:    input.Email,
		Category: input.Category,
		Niche:    input.Niche,
		Reach:    input.Reach,
	}
	return s.accountRepo.UpdateInfluencerProfile(s.postgres, influencer)
}
