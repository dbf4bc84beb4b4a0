package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/jobs"
	"github.com/admarket/admarket/internal/service"
)

// CreateAdRequest inserts a pending ad request.
func (h *Handlers) CreateAdRequest(c *gin.Context) {
	var input service.AdRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}
	claims, _ := getClaims(c)

	adRequest, err := h.adRequests.Create(c.Request.Context(), claims, input)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Ad Request added successfully", "ad_request": adRequest})
}

// UpdateAdRequest applies the negotiation field-ownership rules.
func (h *Handlers) UpdateAdRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	var input service.AdRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}
	claims, _ := getClaims(c)

	msg, err := h.adRequests.Update(c.Request.Context(), claims, id, input)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// UpdateAdRequestStatus records the influencer's accept/reject decision.
func (h *Handlers) UpdateAdRequestStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	claims, _ := getClaims(c)

	msg, err := h.adRequests.UpdateStatus(c.Request.Context(), claims, id, c.Param("status"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// DeleteAdRequest removes an ad request owned through its campaign.
func (h *Handlers) DeleteAdRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	claims, _ := getClaims(c)

	if err := h.adRequests.Delete(c.Request.Context(), claims, id); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Ad Request Deleted successfully"})
}

// MyAdRequests returns the calling influencer's denormalized ad requests.
func (h *Handlers) MyAdRequests(c *gin.Context) {
	claims, _ := getClaims(c)

	invites, err := h.adRequests.ListMine(c.Request.Context(), claims)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, invites)
}

// AdRequestActivity returns the activity log, most recent first.
func (h *Handlers) AdRequestActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}

	activities, err := h.adRequests.Activities(c.Request.Context(), id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// ExportCampaigns enqueues the CSV export job and returns its handle.
func (h *Handlers) ExportCampaigns(c *gin.Context) {
	claims, _ := getClaims(c)

	taskID, err := h.queue.Enqueue(jobs.KindExportCampaigns, jobs.ExportPayload{SponsorID: claims.ID})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":     "Export is in progress , you will be notified when it is done",
		"task_id": taskID,
	})
}

// GetExportTask polls an export job and streams the CSV when done.
func (h *Handlers) GetExportTask(c *gin.Context) {
	status, ok := h.queue.Status(c.Param("id"))
	if !ok {
		h.respondErr(c, apperr.NotFound("Task with id %s not found", c.Param("id")))
		return
	}

	switch status.State {
	case jobs.StateDone:
		c.FileAttachment(status.Result, "campaigns.csv")
	case jobs.StateFailed:
		h.respondErr(c, apperr.New(apperr.CodeInternal, "export task failed"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Task is in progress , you will be notified when it is done"})
	}
}
