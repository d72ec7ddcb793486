package dto

import "time"

// AdminActionRequest is the shared body of ban, unsuspend, soft-delete and
// restore requests.
type AdminActionRequest struct {
	Reason    string `json:"reason"`
	AdminName string `json:"adminName"`
}

type SuspendRequest struct {
	Until     string `json:"until" binding:"required" validate:"required"`
	Reason    string `json:"reason"`
	AdminName string `json:"adminName"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required" validate:"required,is-user-role"`
}

// UpdateMeRequest uses pointers so handlers can distinguish "absent" from
// "set to empty". fullName/name and school/schoolName are accepted as
// aliases for older clients.
type UpdateMeRequest struct {
	FullName   *string `json:"fullName"`
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	School     *string `json:"school"`
	SchoolName *string `json:"schoolName"`
}

func (r *UpdateMeRequest) ResolvedName() *string {
	if r.FullName != nil {
		return r.FullName
	}
	return r.Name
}

func (r *UpdateMeRequest) ResolvedSchool() *string {
	if r.School != nil {
		return r.School
	}
	return r.SchoolName
}

type ChangePasswordRequest struct {
	Current     string `json:"current" binding:"required" validate:"required"`
	NewPassword string `json:"newPassword" binding:"required" validate:"required,min=6"`
}

// UserSummary is the admin listing row. lastLogin, booksBorrowed and
// avatar are carried for client compatibility; the backend does not track
// them yet.
type UserSummary struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	SuspendedUntil *time.Time `json:"suspendedUntil"`
	JoinDate       time.Time  `json:"joinDate"`
	LastLogin      *time.Time `json:"lastLogin"`
	BooksBorrowed  int        `json:"booksBorrowed"`
	Avatar         string     `json:"avatar"`
	IsDeleted      bool       `json:"isDeleted"`
	DeletedAt      *time.Time `json:"deletedAt"`
	DeletedReason  string     `json:"deletedReason"`
	DeletedBy      string     `json:"deletedBy"`
}

// UnverifiedUser exposes the outstanding verification artifacts of an
// account for the development helper endpoints.
type UnverifiedUser struct {
	Email                    string     `json:"email"`
	IsVerified               bool       `json:"isVerified"`
	VerificationCode         string     `json:"verificationCode,omitempty"`
	VerificationCodeExpires  *time.Time `json:"verificationCodeExpires,omitempty"`
	VerificationToken        string     `json:"verificationToken,omitempty"`
	VerificationTokenExpires *time.Time `json:"verificationTokenExpires,omitempty"`
}

type MeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	SchoolName string `json:"schoolName"`
	Location   string `json:"location"`
	Contact    string `json:"contact"`
	Role       string `json:"role"`
}
