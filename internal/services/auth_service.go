package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dlibrary_backend/internal/email"
	"dlibrary_backend/internal/logger"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/repositories"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// verificationTTL applies to both the link token and the numeric code.
const verificationTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req dto.RegisterRequest) (*models.User, error)
	VerifyEmail(ctx context.Context, db *gorm.DB, token string) error
	VerifyEmailByCode(ctx context.Context, db *gorm.DB, email, code string) error
	ResendVerification(ctx context.Context, db *gorm.DB, email string) error
	Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	mailer      email.Provider
	frontendURL string
}

func NewAuthService(userRepo repositories.UserRepository, mailer email.Provider, frontendURL string) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Register creates an unverified account and issues both verification
// artifacts. The verification email is sent in the background; a mail
// failure does not fail the registration.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req dto.RegisterRequest) (*models.User, error) {
	normalizedEmail := NormalizeEmail(req.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	expires := time.Now().Add(verificationTTL)

	user := &models.User{
		Name:         strings.TrimSpace(req.FullName),
		SchoolName:   strings.TrimSpace(req.SchoolName),
		Location:     strings.TrimSpace(req.Location),
		Gender:       strings.TrimSpace(req.Gender),
		Contact:      strings.TrimSpace(req.Contact),
		Email:        normalizedEmail,
		PasswordHash: string(hash),

		IsVerified:               false,
		VerificationToken:        token,
		VerificationTokenExpires: &expires,
		VerificationCode:         code,
		VerificationCodeExpires:  &expires,

		Role:   models.UserRoleUser,
		Status: models.UserStatusInactive,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID.String(), "email", user.Email)
	s.sendVerificationAsync(ctx, user.Email, token, code)

	return user, nil
}

// VerifyEmail consumes the link token. It clears the token but leaves an
// outstanding code usable; the two artifacts expire independently.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidVerification
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.MarkVerified(db, user.ID.String(), false); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "email verified via token", "user_id", user.ID.String())
	return nil
}

// VerifyEmailByCode consumes the numeric code and clears both artifacts.
func (s *AuthServiceImpl) VerifyEmailByCode(ctx context.Context, db *gorm.DB, emailAddr, code string) error {
	user, err := s.userRepo.FindByEmailAndCode(db, NormalizeEmail(emailAddr), code)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidVerificationCode
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.MarkVerified(db, user.ID.String(), true); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "email verified via code", "user_id", user.ID.String())
	return nil
}

// ResendVerification reissues both artifacts with fresh expiries, which
// invalidates any previously sent token and code.
func (s *AuthServiceImpl) ResendVerification(ctx context.Context, db *gorm.DB, emailAddr string) error {
	normalizedEmail := NormalizeEmail(emailAddr)

	user, err := s.userRepo.FindByEmail(db, normalizedEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	if user.IsVerified {
		return apperrors.ErrAlreadyVerified
	}

	token, err := generateVerificationToken()
	if err != nil {
		return apperrors.InternalError(err)
	}
	code, err := generateVerificationCode()
	if err != nil {
		return apperrors.InternalError(err)
	}
	expires := time.Now().Add(verificationTTL)

	if err := s.userRepo.SetVerificationArtifacts(db, user.ID.String(), token, expires, code, expires); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "verification reissued", "user_id", user.ID.String())
	s.sendVerificationAsync(ctx, user.Email, token, code)

	return nil
}

// Login authenticates and then walks the account gate in a fixed order:
// credentials, verification, soft-delete, ban, suspension. An expired
// suspension falls through and the login succeeds without any state change.
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrNotVerified
	}
	if user.IsDeleted {
		return nil, apperrors.ErrAccountRemoved
	}
	if user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrAccountBanned
	}
	if user.Status == models.UserStatusSuspended && user.SuspendedUntil != nil && user.SuspendedUntil.After(time.Now()) {
		return nil, apperrors.ErrAccountSuspended(email.FormatUntil(*user.SuspendedUntil))
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID.String())

	return &dto.LoginResponse{
		Message: "Login successful",
		UserID:  user.ID.String(),
		User: dto.UserPayload{
			ID:         user.ID.String(),
			Name:       user.Name,
			SchoolName: user.SchoolName,
			Email:      user.Email,
			Role:       string(user.Role),
		},
	}, nil
}

func (s *AuthServiceImpl) sendVerificationAsync(ctx context.Context, to, token, code string) {
	link := fmt.Sprintf("%s/auth/verify?token=%s", s.frontendURL, token)
	go func() {
		if err := s.mailer.SendVerification(to, email.VerificationData{Link: link, Code: code}); err != nil {
			logger.CtxWithError(ctx, "failed to send verification email", err, "to", to)
		}
	}()
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree on a single canonical form.
func NormalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}

// generateVerificationToken returns 24 random bytes hex-encoded (48 chars).
func generateVerificationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// generateVerificationCode returns a uniformly random 6-digit code in
// [100000, 999999].
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
