package models

import (
	"time"
)

// User role constants
const (
	RoleAdmin    = "ADMIN"
	RoleOfficial = "OFFICIAL"
	RoleLawyer   = "LAWYER"
	RoleLitigant = "LITIGANT"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Name         string  `gorm:"not null" json:"name"`
	Role         string  `gorm:"not null;index" json:"role"`
	District     *string `gorm:"size:100" json:"district,omitempty"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Verified     bool    `gorm:"not null;default:false" json:"verified"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLitigant checks if the user has the litigant role
func (u *User) IsLitigant() bool {
	return u.Role == RoleLitigant
}

// IsLawyer checks if the user has the lawyer role
func (u *User) IsLawyer() bool {
	return u.Role == RoleLawyer
}

// IsOfficial checks if the user has the official role
func (u *User) IsOfficial() bool {
	return u.Role == RoleOfficial
}

// IsValidRole checks if the role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOfficial, RoleLawyer, RoleLitigant:
		return true
	}
	return false
}

// IsValidRegistrationRole checks if the role may be chosen at self-registration.
// ADMIN accounts are provisioned via the create-admin CLI only.
func IsValidRegistrationRole(role string) bool {
	switch role {
	case RoleLitigant, RoleLawyer, RoleOfficial:
		return true
	}
	return false
}
