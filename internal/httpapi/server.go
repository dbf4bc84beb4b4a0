// Package httpapi wires the gin router: every route passes the token
// check, then a static per-route role allow-list, then its handler.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/jobs"
	"github.com/admarket/admarket/internal/model"
	"github.com/admarket/admarket/internal/service"
)

// Handlers holds every dependency the route handlers need.
type Handlers struct {
	accounts   *service.AccountService
	admin      *service.AdminService
	campaigns  *service.CampaignService
	adRequests *service.AdRequestService
	dashboard  *service.DashboardService
	queue      *jobs.Queue
	tokens     *auth.TokenService
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	accounts *service.AccountService,
	admin *service.AdminService,
	campaigns *service.CampaignService,
	adRequests *service.AdRequestService,
	dashboard *service.DashboardService,
	queue *jobs.Queue,
	tokens *auth.TokenService,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		accounts:   accounts,
		admin:      admin,
		campaigns:  campaigns,
		adRequests: adRequests,
		dashboard:  dashboard,
		queue:      queue,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// RegisterRoutes attaches every route to the engine.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	// Public routes, rate limited per IP.
	credentials := r.Group("/", RateLimit(5, 10))
	{
		credentials.POST("/register", h.Register)
		credentials.POST("/login", h.Login)
	}

	// All other routes require a valid token.
	authed := r.Group("/", h.RequireAuth())

	anyRole := authed.Group("/", RequireRoles(model.RoleAdmin, model.RoleSponsor, model.RoleInfluencer))
	{
		anyRole.GET("/logout", h.Logout)
		anyRole.GET("/profile/:id", h.GetProfile)
		anyRole.POST("/profile/update", h.UpdateProfile)
		anyRole.GET("/campaigns/filter", h.FilterCampaigns)
		anyRole.GET("/campaigns/:id", h.GetCampaign)
	}

	adminOnly := authed.Group("/", RequireRoles(model.RoleAdmin))
	{
		adminOnly.PUT("/sponsor-status/:id/:status", h.SetSponsorStatus)
		adminOnly.POST("/flag/:table/:id", h.Flag)
		adminOnly.POST("/unflag/:table/:id", h.Unflag)
		adminOnly.GET("/dashboard", h.Dashboard)
	}

	adminOrSponsor := authed.Group("/", RequireRoles(model.RoleAdmin, model.RoleSponsor))
	{
		adminOrSponsor.GET("/users/:table", h.ListUsers)
	}

	sponsorOnly := authed.Group("/", RequireRoles(model.RoleSponsor))
	{
		sponsorOnly.POST("/campaigns", h.CreateCampaign)
		sponsorOnly.GET("/campaigns/me", h.MyCampaigns)
		sponsorOnly.PUT("/campaigns/:id", h.UpdateCampaign)
		sponsorOnly.DELETE("/campaigns/:id", h.DeleteCampaign)
		sponsorOnly.DELETE("/ad-requests/:id", h.DeleteAdRequest)
		sponsorOnly.POST("/reports/campaigns", h.ExportCampaigns)
		sponsorOnly.GET("/export-task/:id", h.GetExportTask)
	}

	influencerOnly := authed.Group("/", RequireRoles(model.RoleInfluencer))
	{
		influencerOnly.PUT("/ad-requests/:id/:status", h.UpdateAdRequestStatus)
		influencerOnly.GET("/ad-requests/me", h.MyAdRequests)
	}

	negotiators := authed.Group("/", RequireRoles(model.RoleSponsor, model.RoleInfluencer))
	{
		negotiators.POST("/ad-requests", h.CreateAdRequest)
		negotiators.PUT("/ad-requests/:id", h.UpdateAdRequest)
		negotiators.GET("/activity/:id", h.AdRequestActivity)
	}
}
