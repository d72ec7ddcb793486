package handlers

import (
	"net/http"

	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/services"
	"dlibrary_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// GetMe handles GET /api/users/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	db := h.GetDB(c)
	user, err := h.userService.CurrentUser(c.Request.Context(), db)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMeResponse(user))
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateMeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	user, err := h.userService.UpdateMe(c.Request.Context(), db, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"user":    toMeResponse(user),
	})
}

// ChangePassword handles POST /api/users/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)
	if err := h.userService.ChangePassword(c.Request.Context(), db, req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func toMeResponse(user *models.User) dto.MeResponse {
	return dto.MeResponse{
		ID:         user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		SchoolName: user.SchoolName,
		Location:   user.Location,
		Contact:    user.Contact,
		Role:       string(user.Role),
	}
}
