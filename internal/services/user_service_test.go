package services

import (
	"context"
	"testing"
	"time"

	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/services/dto"
	"dlibrary_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCurrentUserPrefersConfiguredAdmin(t *testing.T) {
	repo := newMemoryUserRepo()
	seedUser(repo, "oldest@example.com", "secret123", func(u *models.User) {
		u.CreatedAt = time.Now().Add(-48 * time.Hour)
	})
	admin := seedUser(repo, "admin@example.com", "secret123", func(u *models.User) {
		u.Role = models.UserRoleAdmin
	})

	svc := NewUserService(repo, "Admin@Example.com")
	user, err := svc.CurrentUser(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
}

func TestCurrentUserFallsBackToOldestAccount(t *testing.T) {
	repo := newMemoryUserRepo()
	oldest := seedUser(repo, "oldest@example.com", "secret123", func(u *models.User) {
		u.CreatedAt = time.Now().Add(-48 * time.Hour)
	})
	seedUser(repo, "newer@example.com", "secret123")

	// Configured admin does not exist yet, fall through to the oldest.
	svc := NewUserService(repo, "admin@example.com")
	user, err := svc.CurrentUser(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, oldest.ID, user.ID)
}

func TestCurrentUserEmptyDatabase(t *testing.T) {
	svc := NewUserService(newMemoryUserRepo(), "")

	_, err := svc.CurrentUser(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateMeAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMemoryUserRepo()
	user := seedUser(repo, "reader@example.com", "secret123", func(u *models.User) {
		u.Name = "Old Name"
		u.SchoolName = "Old School"
	})
	svc := NewUserService(repo, "reader@example.com")

	name := "New Name"
	_, err := svc.UpdateMe(context.Background(), nil, dto.UpdateMeRequest{FullName: &name})
	require.NoError(t, err)

	stored := repo.get(user.ID)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "Old School", stored.SchoolName)
	assert.Equal(t, "reader@example.com", stored.Email)
}

func TestUpdateMeRejectsTakenEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	seedUser(repo, "reader@example.com", "secret123")
	seedUser(repo, "other@example.com", "secret123")
	svc := NewUserService(repo, "reader@example.com")

	taken := "Other@Example.com"
	_, err := svc.UpdateMe(context.Background(), nil, dto.UpdateMeRequest{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestUpdateMeNormalizesNewEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	user := seedUser(repo, "reader@example.com", "secret123")
	svc := NewUserService(repo, "reader@example.com")

	fresh := "  Fresh@Example.COM "
	_, err := svc.UpdateMe(context.Background(), nil, dto.UpdateMeRequest{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "fresh@example.com", repo.get(user.ID).Email)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newMemoryUserRepo()
	user := seedUser(repo, "reader@example.com", "secret123")
	svc := NewUserService(repo, "reader@example.com")

	err := svc.ChangePassword(context.Background(), nil, dto.ChangePasswordRequest{
		Current:     "wrong",
		NewPassword: "newsecret",
	})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), nil, dto.ChangePasswordRequest{
		Current:     "secret123",
		NewPassword: "newsecret",
	}))

	stored := repo.get(user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")))
}
