package handlers

import (
	"dlibrary_backend/internal/services"
	"dlibrary_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Admin *AdminHandler
}

func NewAppHandlers(v *validator.Validator, svc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		Auth:  NewAuthHandler(base, svc.Auth),
		User:  NewUserHandler(base, svc.User),
		Admin: NewAdminHandler(base, svc.Account),
	}
}
