package services

import (
	"errors"
	"sync"
	"time"

	"dlibrary_backend/internal/email"
	"dlibrary_backend/internal/models"
	"dlibrary_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryUserRepo is an in-memory UserRepository for service tests. It
// mirrors the SQL expiry semantics: an artifact is valid only while its
// expiry is strictly in the future.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *memoryUserRepo) put(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.users[user.ID] = &clone
	return user
}

func (r *memoryUserRepo) get(id uuid.UUID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone
	}
	return nil
}

func (r *memoryUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == user.Email {
			r.mu.Unlock()
			return repositories.ErrUserAlreadyExists
		}
	}
	r.mu.Unlock()
	r.put(user)
	return nil
}

func (r *memoryUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, repositories.ErrUserNotFound
	}
	if u := r.get(parsed); u != nil {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) FindOldest(db *gorm.DB) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var oldest *models.User
	for _, u := range r.users {
		if oldest == nil || u.CreatedAt.Before(oldest.CreatedAt) {
			oldest = u
		}
	}
	if oldest == nil {
		return nil, repositories.ErrUserNotFound
	}
	clone := *oldest
	return &clone, nil
}

func (r *memoryUserRepo) EmailTaken(db *gorm.DB, email, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.ID.String() != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.VerificationToken != "" && u.VerificationToken == token &&
			u.VerificationTokenExpires != nil && u.VerificationTokenExpires.After(now) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) FindByEmailAndCode(db *gorm.DB, email, code string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.Email == email && u.VerificationCode != "" && u.VerificationCode == code &&
			u.VerificationCodeExpires != nil && u.VerificationCodeExpires.After(now) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memoryUserRepo) update(id string, fn func(*models.User)) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return repositories.ErrUserNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[parsed]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepo) SetVerificationArtifacts(db *gorm.DB, userID, token string, tokenExpires time.Time, code string, codeExpires time.Time) error {
	return r.update(userID, func(u *models.User) {
		te, ce := tokenExpires, codeExpires
		u.VerificationToken = token
		u.VerificationTokenExpires = &te
		u.VerificationCode = code
		u.VerificationCodeExpires = &ce
	})
}

func (r *memoryUserRepo) MarkVerified(db *gorm.DB, userID string, clearCode bool) error {
	return r.update(userID, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
		u.VerificationTokenExpires = nil
		if clearCode {
			u.VerificationCode = ""
			u.VerificationCodeExpires = nil
		}
	})
}

func (r *memoryUserRepo) UpdateProfile(db *gorm.DB, user *models.User) error {
	return r.update(user.ID.String(), func(u *models.User) {
		u.Name = user.Name
		u.SchoolName = user.SchoolName
		u.Location = user.Location
		u.Contact = user.Contact
		u.Email = user.Email
	})
}

func (r *memoryUserRepo) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	return r.update(userID, func(u *models.User) {
		u.PasswordHash = passwordHash
	})
}

func (r *memoryUserRepo) UpdateStatus(db *gorm.DB, userID string, status models.UserStatus, suspendedUntil *time.Time) error {
	return r.update(userID, func(u *models.User) {
		u.Status = status
		u.SuspendedUntil = suspendedUntil
	})
}

func (r *memoryUserRepo) UpdateRole(db *gorm.DB, userID string, role models.UserRole) error {
	return r.update(userID, func(u *models.User) {
		u.Role = role
	})
}

func (r *memoryUserRepo) SoftDelete(db *gorm.DB, userID, reason, deletedBy string) error {
	return r.update(userID, func(u *models.User) {
		now := time.Now()
		u.IsDeleted = true
		u.DeletedAt = &now
		u.DeletedReason = reason
		u.DeletedBy = deletedBy
	})
}

func (r *memoryUserRepo) Restore(db *gorm.DB, userID string) error {
	return r.update(userID, func(u *models.User) {
		u.IsDeleted = false
		u.DeletedAt = nil
		u.DeletedReason = ""
		u.DeletedBy = ""
	})
}

func (r *memoryUserRepo) FindAll(db *gorm.DB, includeDeleted bool) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if !includeDeleted && u.IsDeleted {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *memoryUserRepo) FindUnverified(db *gorm.DB) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if !u.IsVerified {
			out = append(out, *u)
		}
	}
	return out, nil
}

var _ repositories.UserRepository = (*memoryUserRepo)(nil)

type sentMail struct {
	to           string
	verification *email.VerificationData
	action       *email.AccountActionData
}

// captureMailer records sends and signals them on a channel so tests can
// wait for the background goroutines.
type captureMailer struct {
	sent    chan sentMail
	failAll bool
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan sentMail, 16)}
}

func (m *captureMailer) SendVerification(to string, data email.VerificationData) error {
	m.sent <- sentMail{to: to, verification: &data}
	if m.failAll {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *captureMailer) SendAccountAction(to string, data email.AccountActionData) error {
	m.sent <- sentMail{to: to, action: &data}
	if m.failAll {
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *captureMailer) waitForSend(timeout time.Duration) (sentMail, bool) {
	select {
	case mail := <-m.sent:
		return mail, true
	case <-time.After(timeout):
		return sentMail{}, false
	}
}

var _ email.Provider = (*captureMailer)(nil)
