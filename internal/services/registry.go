package services

import (
	"dlibrary_backend/internal/config"
	"dlibrary_backend/internal/email"
	"dlibrary_backend/internal/repositories"
)

// ServiceContainer wires the repositories and the mail provider into the
// service layer once at startup.
type ServiceContainer struct {
	Auth    AuthService
	Account AccountService
	User    UserService
}

func NewServiceContainer(cfg *config.Config, mailer email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()

	return &ServiceContainer{
		Auth:    NewAuthService(userRepo, mailer, cfg.Frontend.URL),
		Account: NewAccountService(userRepo, mailer),
		User:    NewUserService(userRepo, cfg.Admin.Email),
	}
}
