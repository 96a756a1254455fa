package domain

import (
	"time"
)

// RoleClaimType is the claim type used to list a user's roles alongside
// their claims in token responses.
const RoleClaimType = "role"

// User is a registered account in the credential store.
type User struct {
	ID                string
	Email             string
	NormalizedEmail   string
	PasswordHash      string
	EmailConfirmed    bool
	LockoutEnabled    bool
	LockoutEnd        *time.Time
	AccessFailedCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLockedOut reports whether sign-in is currently blocked for the user.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// Claim is a (type, value) pair attached to a user. A user holds at most one
// claim per type.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// HasClaimType reports whether claims contains one of the given type.
func HasClaimType(claims []Claim, claimType string) bool {
	for _, c := range claims {
		if c.Type == claimType {
			return true
		}
	}
	return false
}

// UserToken is the subject block of a token response.
type UserToken struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Claims []Claim `json:"claims"`
}

// UserResponse is returned by register, login and add-claim.
type UserResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserToken   UserToken `json:"user_token"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=256"`
	Password        string `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// AddClaimInput grants ClaimType/ClaimValue to UserID.
type AddClaimInput struct {
	UserID     string `json:"user_id" validate:"required,max=64"`
	ClaimType  string `json:"claim_type" validate:"required,max=256"`
	ClaimValue string `json:"claim_value" validate:"required,max=256"`
}
