package services

import (
	"context"
	"errors"

	"dlibrary_backend/internal/logger"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/repositories"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService serves the self-service profile endpoints. There is no
// session layer yet, so "current user" resolves to the configured admin
// account when set, otherwise the oldest account.
type UserService interface {
	CurrentUser(ctx context.Context, db *gorm.DB) (*models.User, error)
	UpdateMe(ctx context.Context, db *gorm.DB, req dto.UpdateMeRequest) (*models.User, error)
	ChangePassword(ctx context.Context, db *gorm.DB, req dto.ChangePasswordRequest) error
}

type UserServiceImpl struct {
	userRepo   repositories.UserRepository
	adminEmail string
}

func NewUserService(userRepo repositories.UserRepository, adminEmail string) UserService {
	return &UserServiceImpl{userRepo: userRepo, adminEmail: NormalizeEmail(adminEmail)}
}

func (s *UserServiceImpl) CurrentUser(ctx context.Context, db *gorm.DB) (*models.User, error) {
	if s.adminEmail != "" {
		user, err := s.userRepo.FindByEmail(db, s.adminEmail)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	user, err := s.userRepo.FindOldest(db)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// UpdateMe applies only the fields present in the request. An email change
// is rejected when another account already uses the address.
func (s *UserServiceImpl) UpdateMe(ctx context.Context, db *gorm.DB, req dto.UpdateMeRequest) (*models.User, error) {
	user, err := s.CurrentUser(ctx, db)
	if err != nil {
		return nil, err
	}

	if name := req.ResolvedName(); name != nil {
		user.Name = *name
	}
	if school := req.ResolvedSchool(); school != nil {
		user.SchoolName = *school
	}
	if req.Email != nil {
		normalized := NormalizeEmail(*req.Email)
		if normalized != user.Email {
			taken, err := s.userRepo.EmailTaken(db, normalized, user.ID.String())
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			if taken {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			user.Email = normalized
		}
	}

	if err := s.userRepo.UpdateProfile(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "profile updated", "user_id", user.ID.String())
	return user, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, req dto.ChangePasswordRequest) error {
	user, err := s.CurrentUser(ctx, db)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Current)); err != nil {
		return apperrors.NewBadRequestError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID.String(), string(hash)); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password changed", "user_id", user.ID.String())
	return nil
}
