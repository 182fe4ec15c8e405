package models

import "time"

// Account types are mutually exclusive capability tags: a submitter manages
// one organization profile and cannot vote, a voter votes and owns nothing.
const (
	AccountTypeSubmitter = "submitter"
	AccountTypeVoter     = "voter"
)

// RoleAdmin is the role id that unlocks the /admin route group.
const RoleAdmin = 1

type User struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	RoleID      int    `gorm:"default:2" json:"role_id"`
	AccountType string `json:"account_type"` // "submitter", "voter" or unset

	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may use admin routes.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

// Verified reports whether the user completed email verification.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	AccountType          string `json:"account_type"` // optional at registration
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
