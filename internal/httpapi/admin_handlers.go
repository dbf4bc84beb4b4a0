package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/admarket/admarket/internal/apperr"
)

// SetSponsorStatus approves or rejects a sponsor profile.
func (h *Handlers) SetSponsorStatus(c *gin.Context) {
	sponsorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil {
		h.respondErr(c, apperr.Validation("status must be 0 or 1"))
		return
	}

	msg, err := h.admin.SetSponsorStatus(c.Request.Context(), sponsorID, status)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// Flag marks an account or campaign as flagged.
func (h *Handlers) Flag(c *gin.Context) {
	h.setFlag(c, true)
}

// Unflag clears the flag from an account or campaign.
func (h *Handlers) Unflag(c *gin.Context) {
	h.setFlag(c, false)
}

func (h *Handlers) setFlag(c *gin.Context, flagged bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}

	var msg string
	if flagged {
		msg, err = h.admin.Flag(c.Request.Context(), c.Param("table"), id)
	} else {
		msg, err = h.admin.Unflag(c.Request.Context(), c.Param("table"), id)
	}
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// ListUsers returns every row of an allow-listed table through the cache.
func (h *Handlers) ListUsers(c *gin.Context) {
	rows, err := h.admin.ListTable(c.Request.Context(), c.Param("table"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Dashboard returns the cached admin dashboard aggregates.
func (h *Handlers) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
