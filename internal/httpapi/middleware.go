package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/metrics"
)

const (
	tokenCookie = "token"
	claimsKey   = "claims"
)

// RequestLogger logs every request and records its duration metric.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordRequestDuration(route, strconv.Itoa(status), elapsed.Seconds())
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
	}
}

// RequireAuth verifies the token cookie, stashes the claims and attaches a
// refreshed token so the session expiry slides forward on every call.
func (h *Handlers) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Please login to continue"})
			return
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			h.respondErr(c, err)
			return
		}

		// Reissue before the handler writes the body; headers are
		// committed on first write.
		refreshed, err := h.tokens.Issue(claims)
		if err != nil {
			h.respondErr(c, fmt.Errorf("failed to refresh token: %w", err))
			return
		}
		h.setTokenCookie(c, refreshed)

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles admits only callers whose role claim is in the allow-list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Please login to continue"})
			return
		}
		if !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Unauthorized , you don't have role for this action"})
			return
		}
		c.Next()
	}
}

// RateLimit applies a per-IP token bucket to the credential endpoints.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rps, burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "Too many attempts , please slow down"})
			return
		}
		c.Next()
	}
}

func (h *Handlers) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(tokenCookie, token, int(h.tokenTTL.Seconds()), "/", "", false, true)
}

func (h *Handlers) clearTokenCookie(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}
