package models

type UserStatus string
type UserRole string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser      UserRole = "user"
	UserRoleMember    UserRole = "member"
	UserRoleLibrarian UserRole = "librarian"
	UserRoleAdmin     UserRole = "admin"
)

// AssignableRoles are the roles an administrator may set on an account.
var AssignableRoles = []UserRole{UserRoleMember, UserRoleLibrarian, UserRoleAdmin}

func IsAssignableRole(r UserRole) bool {
	for _, role := range AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}
