package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/admarket/admarket/internal/cache"
	"github.com/admarket/admarket/internal/metrics"
	"github.com/admarket/admarket/internal/model"
	"github.com/admarket/admarket/internal/repository"
)

const (
	dashboardCacheKey      = "dashboard"
	recentAdRequestsOnPage = 5
)

// DashboardService assembles the admin dashboard. The whole payload is
// cached under one key; a hit bypasses every query.
type DashboardService struct {
	postgres      *sqlx.DB
	dashboardRepo *repository.DashboardRepository
	cache         cache.Cache
	cacheTTL      time.Duration
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(postgres *sqlx.DB, c cache.Cache, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		postgres:      postgres,
		dashboardRepo: repository.NewDashboardRepository(),
		cache:         c,
		cacheTTL:      cacheTTL,
	}
}

// Get returns the dashboard, from cache when live.
func (s *DashboardService) Get(ctx context.Context) (*model.Dashboard, error) {
	var cached model.Dashboard
	if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
		metrics.RecordCacheLookup(dashboardCacheKey, "hit")
		return &cached, nil
	}
	metrics.RecordCacheLookup(dashboardCacheKey, "miss")

	counts, err := s.dashboardRepo.GetCounts(s.postgres)
	if err != nil {
		return nil, err
	}
	pendingSponsors, err := s.dashboardRepo.ListPendingSponsors(s.postgres)
	if err != nil {
		return nil, err
	}
	recent, err := s.dashboardRepo.ListRecentAdRequests(s.postgres, recentAdRequestsOnPage)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		Data: []model.DashboardStat{
			{Title: "Total Sponsors", Count: counts.TotalSponsors},
			{Title: "Flagged Sponsors", Count: counts.FlaggedSponsors},
			{Title: "Total Influencers", Count: counts.TotalInfluencers},
			{Title: "Flagged Influencers", Count: counts.FlaggedInfluencers},
			{Title: "Total Campaigns", Count: counts.PublicCampaigns + counts.PrivateCampaigns},
			{Title: "Public Campaigns", Count: counts.PublicCampaigns},
			{Title: "Private Campaigns", Count: counts.PrivateCampaigns},
			{Title: "Flagged Campaigns", Count: counts.FlaggedCampaigns},
			{Title: "Total Ad Requests", Count: counts.PendingAdRequests + counts.AcceptedAdRequests + counts.RejectedAdRequests},
			{Title: "Pending Ad Requests", Count: counts.PendingAdRequests},
			{Title: "Accepted Ad Requests", Count: counts.AcceptedAdRequests},
			{Title: "Rejected Ad Requests", Count: counts.RejectedAdRequests},
		},
		ToApproveSponsors: pendingSponsors,
		RecentAdRequests:  recent,
	}

	_ = s.cache.Set(ctx, dashboardCacheKey, dashboard, s.cacheTTL)
	return dashboard, nil
}
