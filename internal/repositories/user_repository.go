package repositories

import (
	"errors"
	"time"

	"dlibrary_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the persistence contract for accounts. Implementations
// must apply every transition as a single atomic update so no reader
// observes a half-applied state change.
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindOldest(db *gorm.DB) (*models.User, error)
	EmailTaken(db *gorm.DB, email, excludeID string) (bool, error)

	// Verification artifact lookups. Both treat "expires at == now" as
	// expired: validity requires a strictly future expiry.
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	FindByEmailAndCode(db *gorm.DB, email, code string) (*models.User, error)

	SetVerificationArtifacts(db *gorm.DB, userID, token string, tokenExpires time.Time, code string, codeExpires time.Time) error
	MarkVerified(db *gorm.DB, userID string, clearCode bool) error

	UpdateProfile(db *gorm.DB, user *models.User) error
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
	UpdateStatus(db *gorm.DB, userID string, status models.UserStatus, suspendedUntil *time.Time) error
	UpdateRole(db *gorm.DB, userID string, role models.UserRole) error
	SoftDelete(db *gorm.DB, userID, reason, deletedBy string) error
	Restore(db *gorm.DB, userID string) error

	FindAll(db *gorm.DB, includeDeleted bool) ([]models.User, error)
	FindUnverified(db *gorm.DB) ([]models.User, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	// The pre-check is not atomic with the insert; a concurrent register
	// for the same email can still hit the unique index on email.
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure,
// either already translated by gorm or raw from the postgres driver
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindOldest(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Order("created_at ASC").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) EmailTaken(db *gorm.DB, email, excludeID string) (bool, error) {
	var count int64
	query := db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where(
		"verification_token = ? AND verification_token <> '' AND verification_token_expires > ?",
		token, time.Now(),
	).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmailAndCode(db *gorm.DB, email, code string) (*models.User, error) {
	var user models.User
	err := db.Where(
		"email = ? AND verification_code = ? AND verification_code <> '' AND verification_code_expires > ?",
		email, code, time.Now(),
	).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetVerificationArtifacts replaces any outstanding token and code. At most
// one live token and one live code exist per account.
func (r *UserRepositoryImpl) SetVerificationArtifacts(db *gorm.DB, userID, token string, tokenExpires time.Time, code string, codeExpires time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"verification_token":         token,
		"verification_token_expires": tokenExpires,
		"verification_code":          code,
		"verification_code_expires":  codeExpires,
		"updated_at":                 time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MarkVerified sets the verified flag and clears the link token. The code
// pair is cleared only on the code path (clearCode); token consumption
// leaves an outstanding code untouched.
func (r *UserRepositoryImpl) MarkVerified(db *gorm.DB, userID string, clearCode bool) error {
	updates := map[string]interface{}{
		"is_verified":                true,
		"verification_token":         "",
		"verification_token_expires": nil,
		"updated_at":                 time.Now(),
	}
	if clearCode {
		updates["verification_code"] = ""
		updates["verification_code_expires"] = nil
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateProfile(db *gorm.DB, user *models.User) error {
	result := db.Model(user).Updates(map[string]interface{}{
		"name":        user.Name,
		"school_name": user.SchoolName,
		"location":    user.Location,
		"contact":     user.Contact,
		"email":       user.Email,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateStatus writes the status and the suspension end together.
// suspendedUntil must be nil for every status except suspended.
func (r *UserRepositoryImpl) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus, suspendedUntil *time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"status":          status,
		"suspended_until": suspendedUntil,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRole(db *gorm.DB, userID string, role models.UserRole) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SoftDelete(db *gorm.DB, userID, reason, deletedBy string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_deleted":     true,
		"deleted_at":     time.Now(),
		"deleted_reason": reason,
		"deleted_by":     deletedBy,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Restore(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_deleted":     false,
		"deleted_at":     nil,
		"deleted_reason": "",
		"deleted_by":     "",
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindAll lists accounts, newest first. Soft-deleted accounts are excluded
// unless includeDeleted is set.
func (r *UserRepositoryImpl) FindAll(db *gorm.DB, includeDeleted bool) ([]models.User, error) {
	var users []models.User
	query := db.Model(&models.User{}).Order("created_at DESC")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	err := query.Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindUnverified(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("is_verified = ?", false).Order("created_at DESC").Find(&users).Error
	return users, err
}
