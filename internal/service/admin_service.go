package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/cache"
	"github.com/admarket/admarket/internal/metrics"
	"github.com/admarket/admarket/internal/model"
	"github.com/admarket/admarket/internal/repository"
)

// AdminService implements sponsor approval, flagging and the cached user
// listings.
type AdminService struct {
	postgres     *sqlx.DB
	accountRepo  *repository.AccountRepository
	campaignRepo *repository.CampaignRepository
	flagRepo     *repository.FlagRepository
	cache        cache.Cache
	cacheTTL     time.Duration
}

// NewAdminService creates a new AdminService instance
func NewAdminService(postgres *sqlx.DB, c cache.Cache, cacheTTL time.Duration) *AdminService {
	return &AdminService{
		postgres:     postgres,
		accountRepo:  repository.NewAccountRepository(),
		campaignRepo: repository.NewCampaignRepository(),
		flagRepo:     repository.NewFlagRepository(),
		cache:        c,
		cacheTTL:     cacheTTL,
	}
}

func flagTableNames() string {
	names := []string{"influencers", "sponsors", "campaigns"}
	return strings.Join(names, ", ")
}

// SetSponsorStatus approves (1) or rejects (0) a sponsor profile.
func (s *AdminService) SetSponsorStatus(ctx context.Context, sponsorID int64, status int) (string, error) {
	if status != 0 && status != 1 {
		return "", apperr.Validation("status must be 0 or 1")
	}

	sponsor, err := s.accountRepo.GetSponsorByID(s.postgres, sponsorID)
	if err != nil {
		return "", err
	}
	if sponsor == nil {
		return "", apperr.NotFound("The Sponsor With Id %d not found", sponsorID)
	}

	approved := status == 1
	statusMsg := "Rejected"
	if approved {
		statusMsg = "Approved"
	}
	if sponsor.IsApproved == approved {
		return "", apperr.Validation("The Sponsor is already %s", statusMsg)
	}

	if err := s.accountRepo.SetSponsorApproval(s.postgres, sponsorID, approved); err != nil {
		return "", err
	}
	return fmt.Sprintf("Sponsor Status Updated To %s successfully", statusMsg), nil
}

// Flag marks an account or campaign as flagged.
func (s *AdminService) Flag(ctx context.Context, table string, id int64) (string, error) {
	return s.setFlag(ctx, table, id, true)
}

// Unflag clears the flag on an account or campaign.
func (s *AdminService) Unflag(ctx context.Context, table string, id int64) (string, error) {
	return s.setFlag(ctx, table, id, false)
}

func (s *AdminService) setFlag(ctx context.Context, table string, id int64, flagged bool) (string, error) {
	if !repository.FlagTables[table] {
		return "", apperr.Validation("Invalid table name , must be in %s", flagTableNames())
	}

	exists, err := s.flagRepo.Exists(s.postgres, table, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperr.NotFound("%s With Id %d not found", table, id)
	}

	if err := s.flagRepo.SetFlag(s.postgres, table, id, flagged); err != nil {
		return "", err
	}
	if flagged {
		return fmt.Sprintf("%s With Id %d is flagged successfully", table, id), nil
	}
	return fmt.Sprintf("%s With Id %d is un-flagged successfully", table, id), nil
}

// ListTable returns every row of the requested table, password-redacted,
// through the per-table cache.
func (s *AdminService) ListTable(ctx context.Context, table string) (any, error) {
	if !repository.FlagTables[table] {
		return nil, apperr.Validation("Invalid table name , must be in %s", flagTableNames())
	}

	switch table {
	case "influencers":
		cached := []model.Influencer{}
		if hit, err := s.cache.Get(ctx, table, &cached); err == nil && hit {
			metrics.RecordCacheLookup(table, "hit")
			return cached, nil
		}
		metrics.RecordCacheLookup(table, "miss")
		rows, err := s.accountRepo.ListInfluencers(s.postgres)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, table, rows, s.cacheTTL)
		return rows, nil
	case "sponsors":
		cached := []model.Sponsor{}
		if hit, err := s.cache.Get(ctx, table, &cached); err == nil && hit {
			metrics.RecordCacheLookup(table, "hit")
			return cached, nil
		}
		metrics.RecordCacheLookup(table, "miss")
		rows, err := s.accountRepo.ListSponsors(s.postgres)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, table, rows, s.cacheTTL)
		return rows, nil
	default: // campaigns
		cached := []model.Campaign{}
		if hit, err := s.cache.Get(ctx, table, &cached); err == nil && hit {
			metrics.RecordCacheLookup(table, "hit")
			return cached, nil
		}
		metrics.RecordCacheLookup(table, "miss")
		rows, err := s.campaignRepo.ListAll(s.postgres)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, table, rows, s.cacheTTL)
		return rows, nil
	}
}
