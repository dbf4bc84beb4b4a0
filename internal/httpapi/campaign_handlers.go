package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/service"
)

// CreateCampaign inserts a campaign owned by the calling sponsor.
func (h *Handlers) CreateCampaign(c *gin.Context) {
	var input service.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}
	claims, _ := getClaims(c)

	msg, err := h.campaigns.Create(c.Request.Context(), claims, input)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// MyCampaigns returns the calling sponsor's campaigns.
func (h *Handlers) MyCampaigns(c *gin.Context) {
	claims, _ := getClaims(c)

	campaigns, err := h.campaigns.ListMine(c.Request.Context(), claims)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// FilterCampaigns returns the role-scoped filtered listing plus the
// budget range across it.
func (h *Handlers) FilterCampaigns(c *gin.Context) {
	claims, _ := getClaims(c)

	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.campaigns.Filter(c.Request.Context(), claims, params)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCampaign returns a campaign with its visible ad requests.
func (h *Handlers) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	claims, _ := getClaims(c)

	detail, err := h.campaigns.Get(c.Request.Context(), claims, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateCampaign replaces every field of an owned campaign.
func (h *Handlers) UpdateCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	var input service.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}
	claims, _ := getClaims(c)

	campaign, err := h.campaigns.Update(c.Request.Context(), claims, id, input)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Campaign updated successfully", "campaign": campaign})
}

// DeleteCampaign removes an owned campaign with no ad requests.
func (h *Handlers) DeleteCampaign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	claims, _ := getClaims(c)

	if err := h.campaigns.Delete(c.Request.Context(), claims, id); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Campaign deleted successfully"})
}
