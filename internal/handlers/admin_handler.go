package handlers

import (
	"net/http"
	"time"

	"dlibrary_backend/internal/services"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewAdminHandler(base *BaseHandler, accountService services.AccountService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    base,
		accountService: accountService,
	}
}

// ListUsers handles GET /api/admin/users. Soft-deleted accounts are hidden
// unless includeDeleted=true.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	includeDeleted := ParseQueryBool(c, "includeDeleted", false)

	db := h.GetDB(c)
	users, err := h.accountService.ListUsers(c.Request.Context(), db, includeDeleted)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListUnverified handles GET /api/admin/unverified. It exposes outstanding
// verification artifacts for support and development use.
func (h *AdminHandler) ListUnverified(c *gin.Context) {
	db := h.GetDB(c)
	users, err := h.accountService.ListUnverified(c.Request.Context(), db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUserByEmail handles GET /api/admin/user?email=. The response includes
// the verification artifacts, which the user model hides from normal
// serialization.
func (h *AdminHandler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Email is required"))
		return
	}

	db := h.GetDB(c)
	user, err := h.accountService.GetByEmail(c.Request.Context(), db, email)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.UnverifiedUser{
		Email:                    user.Email,
		IsVerified:               user.IsVerified,
		VerificationCode:         user.VerificationCode,
		VerificationCodeExpires:  user.VerificationCodeExpires,
		VerificationToken:        user.VerificationToken,
		VerificationTokenExpires: user.VerificationTokenExpires,
	}})
}

// BanUser handles PUT /api/admin/users/:id/ban. The body is optional;
// reason and adminName default to empty.
func (h *AdminHandler) BanUser(c *gin.Context) {
	var req dto.AdminActionRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.Ban(c.Request.Context(), db, c.Param("id"), req.Reason, req.AdminName); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User banned"})
}

// SuspendUser handles PUT /api/admin/users/:id/suspend. The until field
// must parse as RFC3339; whether it is in the future is not checked here,
// an already lapsed suspension simply never blocks a login.
func (h *AdminHandler) SuspendUser(c *gin.Context) {
	var req dto.SuspendRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	until, err := time.Parse(time.RFC3339, req.Until)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid until timestamp. Use RFC3339 format."))
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.Suspend(c.Request.Context(), db, c.Param("id"), until, req.Reason, req.AdminName); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User suspended"})
}

// UnsuspendUser handles PUT /api/admin/users/:id/unsuspend. It moves the
// account to active regardless of whether it was suspended or banned.
func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	var req dto.AdminActionRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.Unsuspend(c.Request.Context(), db, c.Param("id"), req.Reason, req.AdminName); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unsuspended"})
}

// ChangeRole handles PUT /api/admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.ChangeRole(c.Request.Context(), db, c.Param("id"), req.Role, ""); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User role updated"})
}

// SoftDeleteUser handles DELETE /api/admin/users/:id. The body is
// optional, DELETE requests commonly carry none.
func (h *AdminHandler) SoftDeleteUser(c *gin.Context) {
	var req dto.AdminActionRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.SoftDelete(c.Request.Context(), db, c.Param("id"), req.Reason, req.AdminName); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User soft-deleted"})
}

// RestoreUser handles PUT /api/admin/users/:id/restore.
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	var req dto.AdminActionRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.accountService.Restore(c.Request.Context(), db, c.Param("id"), req.Reason, req.AdminName); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User restored"})
}

// SendTestEmail handles POST /api/admin/test-email. It sends synchronously
// so SMTP misconfiguration surfaces in the response.
func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req struct {
		To string `json:"to" binding:"required" validate:"required,email"`
	}
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.accountService.SendTestEmail(c.Request.Context(), req.To); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test email sent"})
}
