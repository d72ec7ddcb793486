package services

import (
	"context"
	"errors"
	"time"

	"dlibrary_backend/internal/email"
	"dlibrary_backend/internal/logger"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/repositories"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AccountService covers the moderation transitions and the admin listings.
// Every transition persists first and notifies after: a failed email is
// logged and never rolls the state change back.
type AccountService interface {
	Ban(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error
	Suspend(ctx context.Context, db *gorm.DB, userID string, until time.Time, reason, adminName string) error
	Unsuspend(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error
	ChangeRole(ctx context.Context, db *gorm.DB, userID, role, adminName string) error
	SoftDelete(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error
	Restore(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error

	ListUsers(ctx context.Context, db *gorm.DB, includeDeleted bool) ([]dto.UserSummary, error)
	ListUnverified(ctx context.Context, db *gorm.DB) ([]dto.UnverifiedUser, error)
	GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error)
	SendTestEmail(ctx context.Context, to string) error
}

type AccountServiceImpl struct {
	userRepo repositories.UserRepository
	mailer   email.Provider
}

func NewAccountService(userRepo repositories.UserRepository, mailer email.Provider) AccountService {
	return &AccountServiceImpl{userRepo: userRepo, mailer: mailer}
}

// Ban is permanent and clears any suspension end.
func (s *AccountServiceImpl) Ban(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(db, userID, models.UserStatusBanned, nil); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user banned", "user_id", userID, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionBanned,
		Reason:    reason,
		AdminName: adminName,
		UserName:  user.Name,
	})
	return nil
}

// Suspend sets a temporary block with an end timestamp. Enforcement happens
// at login; nothing clears the state automatically when it lapses.
func (s *AccountServiceImpl) Suspend(ctx context.Context, db *gorm.DB, userID string, until time.Time, reason, adminName string) error {
	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(db, userID, models.UserStatusSuspended, &until); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user suspended", "user_id", userID, "until", until, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionSuspended,
		Reason:    reason,
		Until:     &until,
		AdminName: adminName,
		UserName:  user.Name,
	})
	return nil
}

// Unsuspend restores an account to active and clears the suspension end.
// It is also the unban path: there is no separate unban transition.
func (s *AccountServiceImpl) Unsuspend(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(db, userID, models.UserStatusActive, nil); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user unsuspended", "user_id", userID, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionRestored,
		Reason:    reason,
		AdminName: adminName,
		UserName:  user.Name,
	})
	return nil
}

func (s *AccountServiceImpl) ChangeRole(ctx context.Context, db *gorm.DB, userID, role, adminName string) error {
	if !models.IsAssignableRole(models.UserRole(role)) {
		return apperrors.ErrInvalidUserRole
	}

	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateRole(db, userID, models.UserRole(role)); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user role changed", "user_id", userID, "role", role, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionRoleChanged,
		AdminName: adminName,
		UserName:  user.Name,
		NewRole:   role,
	})
	return nil
}

// SoftDelete hides the account and records why and by whom. Status and role
// are untouched so a later restore brings the account back exactly as it
// was.
func (s *AccountServiceImpl) SoftDelete(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SoftDelete(db, userID, reason, adminName); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user soft-deleted", "user_id", userID, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionDeleted,
		Reason:    reason,
		AdminName: adminName,
		UserName:  user.Name,
	})
	return nil
}

func (s *AccountServiceImpl) Restore(ctx context.Context, db *gorm.DB, userID, reason, adminName string) error {
	user, err := s.findUser(db, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Restore(db, userID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user restored", "user_id", userID, "admin", adminName)
	s.notifyAsync(ctx, user, email.AccountActionData{
		Action:    email.ActionRestored,
		Reason:    reason,
		AdminName: adminName,
		UserName:  user.Name,
	})
	return nil
}

func (s *AccountServiceImpl) ListUsers(ctx context.Context, db *gorm.DB, includeDeleted bool) ([]dto.UserSummary, error) {
	users, err := s.userRepo.FindAll(db, includeDeleted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		summaries = append(summaries, dto.UserSummary{
			ID:             u.ID.String(),
			Name:           u.Name,
			Email:          u.Email,
			Role:           string(u.Role),
			Status:         string(u.EffectiveStatus()),
			SuspendedUntil: u.SuspendedUntil,
			JoinDate:       u.CreatedAt,
			IsDeleted:      u.IsDeleted,
			DeletedAt:      u.DeletedAt,
			DeletedReason:  u.DeletedReason,
			DeletedBy:      u.DeletedBy,
		})
	}
	return summaries, nil
}

func (s *AccountServiceImpl) ListUnverified(ctx context.Context, db *gorm.DB) ([]dto.UnverifiedUser, error) {
	users, err := s.userRepo.FindUnverified(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.UnverifiedUser, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, dto.UnverifiedUser{
			Email:                    u.Email,
			IsVerified:               u.IsVerified,
			VerificationCode:         u.VerificationCode,
			VerificationCodeExpires:  u.VerificationCodeExpires,
			VerificationToken:        u.VerificationToken,
			VerificationTokenExpires: u.VerificationTokenExpires,
		})
	}
	return out, nil
}

func (s *AccountServiceImpl) GetByEmail(ctx context.Context, db *gorm.DB, emailAddr string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// SendTestEmail is synchronous so the caller can report the SMTP outcome.
func (s *AccountServiceImpl) SendTestEmail(ctx context.Context, to string) error {
	err := s.mailer.SendAccountAction(to, email.AccountActionData{
		Action:    email.ActionRestored,
		Reason:    "This is a test message to confirm mail delivery is working.",
		AdminName: "Digital Library",
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AccountServiceImpl) findUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AccountServiceImpl) notifyAsync(ctx context.Context, user *models.User, data email.AccountActionData) {
	to := user.Email
	go func() {
		if err := s.mailer.SendAccountAction(to, data); err != nil {
			logger.CtxWithError(ctx, "failed to send account action email", err,
				"to", to, "action", string(data.Action))
		}
	}()
}
