package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // full access
	RoleManager  Role = "manager"  // can approve corrections and attendance
	RoleEmployee Role = "employee" // regular employee
)

type User struct {
	ID              string
	CompanyID       *string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}

// IsOwner checks if user is company owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsManager checks if user is manager or owner
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleOwner
}

// CanApprove checks if user can approve correction requests
func (u *User) CanApprove() bool {
	return u.IsManager()
}
