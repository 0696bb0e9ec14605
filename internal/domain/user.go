package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// StaffRoles may use the administrative endpoints
var StaffRoles = []string{RoleAdmin, RoleManager}

// User represents a registered customer or staff member
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	ProfileImage string    `json:"profileImage" db:"profile_image"`
	Address      string    `json:"address" db:"address"`
	Phone        string    `json:"phone" db:"phone"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsStaff reports whether the role grants administrative access
func IsStaff(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ProfileUpdate holds the optional fields of a profile edit; nil means unchanged
type ProfileUpdate struct {
	Username     *string
	ProfileImage *string
	Address      *string
	Phone        *string
}

// Apply copies the set fields onto user
func (p ProfileUpdate) Apply(user *User) {
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.ProfileImage != nil {
		user.ProfileImage = *p.ProfileImage
	}
	if p.Address != nil {
		user.Address = *p.Address
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
}

// RefreshToken is a persisted, revocable session credential
type RefreshToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	Revoked   bool      `db:"revoked"`
}
