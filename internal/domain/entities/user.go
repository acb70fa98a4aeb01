package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// User is the authenticated principal of the system. Admins may have no
// company assigned; CompanyID is null in that case, never zero.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"isAdmin"`
	IsActive     bool       `json:"isActive"`
	CompanyID    null.Int64 `json:"companyId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CompanyIDPtr returns the assigned company as a pointer, nil when the user
// has none. Token payloads use this so "no company" is omitted rather than
// serialized as zero.
func (u *User) CompanyIDPtr() *int64 {
	if !u.CompanyID.Valid {
		return nil
	}
	id := u.CompanyID.Int64
	return &id
}

// Snapshot captures the auditable state of a user. The password hash never
// appears in snapshots.
func (u *User) Snapshot() Snapshot {
	s := Snapshot{
		"email":    u.Email,
		"fullName": u.FullName,
		"isAdmin":  u.IsAdmin,
		"isActive": u.IsActive,
	}
	if u.CompanyID.Valid {
		s["companyId"] = u.CompanyID.Int64
	}
	return s
}

// IsPending reports whether the user is an invited, not-yet-registered
// account: inactive and without a password.
func (u *User) IsPending() bool {
	return !u.IsActive && u.PasswordHash == ""
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	User        *User  `json:"user"`
}

// InviteUserInput represents input for inviting a user into a company
type InviteUserInput struct {
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"fullName" binding:"required,min=2,max=100"`
	CompanyID *int64 `json:"companyId"`
}

// InviteUserResponse carries the invitation token back to the caller. The
// token is the only credential the invitee receives; delivery is out of
// scope here.
type InviteUserResponse struct {
	User            *User  `json:"user"`
	InvitationToken string `json:"invitationToken"`
}

// RegisterInput completes an invitation
type RegisterInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ChangePasswordInput represents input for changing the own password
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
