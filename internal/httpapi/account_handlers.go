package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/service"
)

// Register creates an influencer or sponsor account and logs it in.
func (h *Handlers) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}

	result, err := h.accounts.Register(c.Request.Context(), input)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	token, err := h.tokens.Issue(result.Claims)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"msg": result.Message, "id": result.ID})
}

// Login authenticates an account and sets the session cookie.
func (h *Handlers) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), input)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	token, err := h.tokens.Issue(result.Claims)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"msg": result.Message, "id": result.ID})
}

// Logout clears the session cookie.
func (h *Handlers) Logout(c *gin.Context) {
	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out successfully"})
}

// GetProfile returns an influencer profile with an ownership marker.
func (h *Handlers) GetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondErr(c, apperr.Validation("id must be a number"))
		return
	}
	claims, _ := getClaims(c)

	profile, err := h.accounts.GetProfile(c.Request.Context(), claims, id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces the caller's influencer profile.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input service.ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondErr(c, apperr.Validation("Invalid request body"))
		return
	}
	claims, _ := getClaims(c)

	if err := h.accounts.UpdateProfile(c.Request.Context(), claims, input); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Profile updated successfully"})
}
