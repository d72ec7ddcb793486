package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dlibrary_backend/internal/middleware"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/services"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/internal/validator"
	"dlibrary_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeAccountService records the last transition call and returns scripted
// results.
type fakeAccountService struct {
	lastCall  string
	lastID    string
	lastUntil time.Time
	err       error

	users      []dto.UserSummary
	unverified []dto.UnverifiedUser
}

func (f *fakeAccountService) Ban(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	f.lastCall, f.lastID = "ban", userID
	return f.err
}

func (f *fakeAccountService) Suspend(ctx context.Context, db *gorm.DB, userID string, until time.Time, reason, adminName string) error {
	f.lastCall, f.lastID, f.lastUntil = "suspend", userID, until
	return f.err
}

func (f *fakeAccountService) Unsuspend(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	f.lastCall, f.lastID = "unsuspend", userID
	return f.err
}

func (f *fakeAccountService) ChangeRole(ctx context.Context, db *gorm.DB, userID, role, adminName string) error {
	f.lastCall, f.lastID = "role:"+role, userID
	return f.err
}

func (f *fakeAccountService) SoftDelete(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	f.lastCall, f.lastID = "delete", userID
	return f.err
}

func (f *fakeAccountService) Restore(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	f.lastCall, f.lastID = "restore", userID
	return f.err
}

func (f *fakeAccountService) ListUsers(ctx context.Context, db *gorm.DB, includeDeleted bool) ([]dto.UserSummary, error) {
	if includeDeleted {
		return f.users, f.err
	}
	var visible []dto.UserSummary
	for _, u := range f.users {
		if !u.IsDeleted {
			visible = append(visible, u)
		}
	}
	return visible, f.err
}

func (f *fakeAccountService) ListUnverified(ctx context.Context, db *gorm.DB) ([]dto.UnverifiedUser, error) {
	return f.unverified, f.err
}

func (f *fakeAccountService) GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{Email: email}, nil
}

func (f *fakeAccountService) SendTestEmail(ctx context.Context, to string) error {
	f.lastCall = "test-email"
	return f.err
}

var _ services.AccountService = (*fakeAccountService)(nil)

func newAdminTestRouter(svc services.AccountService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.DBMiddleware(nil))

	h := NewAdminHandler(NewBaseHandler(validator.New()), svc)
	router.GET("/api/admin/users", h.ListUsers)
	router.GET("/api/admin/unverified", h.ListUnverified)
	router.GET("/api/admin/user", h.GetUserByEmail)
	router.PUT("/api/admin/users/:id/ban", h.BanUser)
	router.PUT("/api/admin/users/:id/suspend", h.SuspendUser)
	router.PUT("/api/admin/users/:id/unsuspend", h.UnsuspendUser)
	router.PUT("/api/admin/users/:id/role", h.ChangeRole)
	router.DELETE("/api/admin/users/:id", h.SoftDeleteUser)
	router.PUT("/api/admin/users/:id/restore", h.RestoreUser)
	router.POST("/api/admin/test-email", h.SendTestEmail)
	return router
}

func TestAdminTransitionEndpoints(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        gin.H
		wantCall    string
		wantMessage string
	}{
		{"ban", http.MethodPut, "/api/admin/users/u1/ban", gin.H{"reason": "spam"}, "ban", "User banned"},
		{"unsuspend", http.MethodPut, "/api/admin/users/u1/unsuspend", gin.H{}, "unsuspend", "User unsuspended"},
		{"role", http.MethodPut, "/api/admin/users/u1/role", gin.H{"role": "member"}, "role:member", "User role updated"},
		{"delete", http.MethodDelete, "/api/admin/users/u1", gin.H{"reason": "dup", "adminName": "Alice"}, "delete", "User soft-deleted"},
		{"restore", http.MethodPut, "/api/admin/users/u1/restore", gin.H{}, "restore", "User restored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{}
			router := newAdminTestRouter(svc)

			w := doJSON(t, router, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantMessage, responseMessage(t, w))
			assert.Equal(t, tt.wantCall, svc.lastCall)
			assert.Equal(t, "u1", svc.lastID)
		})
	}
}

func TestAdminTransitionEndpointsAcceptEmptyBody(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		wantCall string
	}{
		{"ban", http.MethodPut, "/api/admin/users/u1/ban", "ban"},
		{"unsuspend", http.MethodPut, "/api/admin/users/u1/unsuspend", "unsuspend"},
		{"delete", http.MethodDelete, "/api/admin/users/u1", "delete"},
		{"restore", http.MethodPut, "/api/admin/users/u1/restore", "restore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAccountService{}
			router := newAdminTestRouter(svc)

			// No JSON body at all; reason and adminName stay empty.
			w := doJSON(t, router, tt.method, tt.path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCall, svc.lastCall)
			assert.Equal(t, "u1", svc.lastID)
		})
	}
}

func TestBanEndpointRejectsMalformedBody(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/u1/ban", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastCall)
}

func TestSuspendEndpointParsesUntil(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/admin/users/u1/suspend", gin.H{
		"until":  "2030-03-15T10:30:00Z",
		"reason": "overdue books",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User suspended", responseMessage(t, w))
	assert.Equal(t, "suspend", svc.lastCall)
	assert.Equal(t, time.Date(2030, time.March, 15, 10, 30, 0, 0, time.UTC), svc.lastUntil.UTC())
}

func TestSuspendEndpointRejectsBadTimestamp(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/admin/users/u1/suspend", gin.H{
		"until": "next tuesday",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastCall)
}

func TestSuspendEndpointRequiresUntil(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/admin/users/u1/suspend", gin.H{"reason": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastCall)
}

func TestChangeRoleEndpointRejectsUnknownRole(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/admin/users/u1/role", gin.H{"role": "superuser"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.lastCall)
}

func TestTransitionEndpointUnknownUser(t *testing.T) {
	svc := &fakeAccountService{err: apperrors.ErrUserNotFound}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPut, "/api/admin/users/u1/ban", gin.H{})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", responseMessage(t, w))
}

func TestListUsersEndpointIncludeDeletedFlag(t *testing.T) {
	svc := &fakeAccountService{users: []dto.UserSummary{
		{ID: "u1", Email: "active@example.com"},
		{ID: "u2", Email: "gone@example.com", IsDeleted: true},
	}}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "gone@example.com")

	w = doJSON(t, router, http.MethodGet, "/api/admin/users?includeDeleted=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gone@example.com")
}

func TestGetUserByEmailEndpointRequiresEmail(t *testing.T) {
	router := newAdminTestRouter(&fakeAccountService{})

	w := doJSON(t, router, http.MethodGet, "/api/admin/user", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", responseMessage(t, w))
}

func TestSendTestEmailEndpoint(t *testing.T) {
	svc := &fakeAccountService{}
	router := newAdminTestRouter(svc)

	w := doJSON(t, router, http.MethodPost, "/api/admin/test-email", gin.H{"to": "reader@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-email", svc.lastCall)
}
