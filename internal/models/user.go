package models

import "time"

// User is the account aggregate. Verification artifacts (token and code)
// have independent lifecycles: either can satisfy verification. Soft-delete
// fields are orthogonal to Status.
type User struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	SchoolName   string `json:"schoolName,omitempty"`
	Location     string `json:"location,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	IsVerified               bool       `gorm:"default:false" json:"isVerified"`
	VerificationToken        string     `json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	VerificationCode         string     `json:"-"`
	VerificationCodeExpires  *time.Time `json:"-"`

	Role           UserRole   `gorm:"type:varchar(20);default:'user'" json:"role"`
	Status         UserStatus `gorm:"type:varchar(20);default:'inactive'" json:"status"`
	SuspendedUntil *time.Time `json:"suspendedUntil,omitempty"`

	IsDeleted     bool       `gorm:"default:false;index" json:"isDeleted"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	DeletedReason string     `json:"deletedReason,omitempty"`
	DeletedBy     string     `json:"deletedBy,omitempty"`
}

// EffectiveStatus prefers the explicit status field and falls back to the
// verification flag for accounts created before statuses existed.
func (u *User) EffectiveStatus() UserStatus {
	if u.Status != "" {
		return u.Status
	}
	if u.IsVerified {
		return UserStatusActive
	}
	return UserStatusInactive
}
