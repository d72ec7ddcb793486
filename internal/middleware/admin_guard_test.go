package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newGuardedRouter(production bool, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AdminOriginGuard(production, allowedOrigins))
	router.GET("/admin/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func doGet(router *gin.Engine, origin, referer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminGuardInactiveOutsideProduction(t *testing.T) {
	router := newGuardedRouter(false, []string{"https://library.example.com"})

	assert.Equal(t, http.StatusOK, doGet(router, "", "").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "https://evil.example.com", "").Code)
}

func TestAdminGuardAllowsConfiguredOrigin(t *testing.T) {
	router := newGuardedRouter(true, []string{"https://library.example.com"})

	assert.Equal(t, http.StatusOK, doGet(router, "https://library.example.com", "").Code)
}

func TestAdminGuardFallsBackToReferer(t *testing.T) {
	router := newGuardedRouter(true, []string{"https://library.example.com"})

	w := doGet(router, "", "https://library.example.com/admin/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminGuardRejectsForeignOrigin(t *testing.T) {
	router := newGuardedRouter(true, []string{"https://library.example.com"})

	assert.Equal(t, http.StatusForbidden, doGet(router, "https://evil.example.com", "").Code)
	assert.Equal(t, http.StatusForbidden, doGet(router, "", "").Code)
}

func TestAdminGuardOpenWhenUnconfigured(t *testing.T) {
	router := newGuardedRouter(true, nil)

	assert.Equal(t, http.StatusOK, doGet(router, "https://anything.example.com", "").Code)
}
