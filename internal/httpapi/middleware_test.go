package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/admarket/admarket/internal/auth"
	"github.com/admarket/admarket/internal/model"
)

func newTestHandlers(t *testing.T, ttl time.Duration) *Handlers {
	t.Helper()
	tokens, err := auth.NewTokenService("middleware-test-key", ttl)
	require.NoError(t, err)
	return &Handlers{tokens: tokens, tokenTTL: ttl, logger: zap.NewNop()}
}

func newAuthedEngine(h *Handlers, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/", h.RequireAuth(), RequireRoles(roles...))
	group.GET("/probe", func(c *gin.Context) {
		claims, _ := getClaims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.ID})
	})
	return engine
}

func TestRequireAuth_MissingToken(t *testing.T) {
	h := newTestHandlers(t, time.Hour)
	engine := newAuthedEngine(h, model.RoleInfluencer)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.JSONEq(t, `{"msg":"Please login to continue"}`, recorder.Body.String())
}

func TestRequireAuth_ValidToken(t *testing.T) {
	h := newTestHandlers(t, time.Hour)
	engine := newAuthedEngine(h, model.RoleInfluencer)

	token, err := h.tokens.Issue(auth.Claims{Role: model.RoleInfluencer, ID: 5})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/probe", nil)
	request.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"id":5}`, recorder.Body.String())
}

func TestRequireAuth_SlidingCookie(t *testing.T) {
	h := newTestHandlers(t, time.Hour)
	engine := newAuthedEngine(h, model.RoleInfluencer)

	token, err := h.tokens.Issue(auth.Claims{Role: model.RoleInfluencer, ID: 5})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/probe", nil)
	request.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	// Every authenticated response re-issues the cookie.
	var refreshed *http.Cookie
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == tokenCookie {
			refreshed = cookie
		}
	}
	require.NotNil(t, refreshed)
	require.NotEmpty(t, refreshed.Value)
	require.True(t, refreshed.HttpOnly)

	_, err = h.tokens.Verify(refreshed.Value)
	require.NoError(t, err)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	h := newTestHandlers(t, time.Hour)
	engine := newAuthedEngine(h, model.RoleInfluencer)

	request := httptest.NewRequest(http.MethodGet, "/probe", nil)
	request.AddCookie(&http.Cookie{Name: tokenCookie, Value: "garbage"})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.JSONEq(t, `{"msg":"Please login to continue"}`, recorder.Body.String())
}

func TestRequireRoles_Forbidden(t *testing.T) {
	h := newTestHandlers(t, time.Hour)
	engine := newAuthedEngine(h, model.RoleAdmin)

	token, err := h.tokens.Issue(auth.Claims{Role: model.RoleInfluencer, ID: 5})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/probe", nil)
	request.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.JSONEq(t, `{"msg":"Unauthorized , you don't have role for this action"}`, recorder.Body.String())
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/login", RateLimit(1, 2), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
	})

	codes := []int{}
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, recorder.Code)
	}

	// Burst of 2, so the third immediate attempt is rejected.
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
