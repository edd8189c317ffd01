package domain

import (
	"fmt"
	"time"
)

// Role is the privilege flag stored on a user profile.
type Role string

const (
	RoleUnknown Role = ""
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
)

// MinPasswordLength is the shortest password the identity provider accepts.
const MinPasswordLength = 6

// Identity is an authenticated account as reported by the identity provider.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Name returns the display name, falling back to the email address.
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Email
}

// UserProfile mirrors an identity into the users collection and holds its role.
type UserProfile struct {
	ID          string    `json:"id" bson:"_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	Email       string    `json:"email" bson:"email"`
	Role        Role      `json:"role" bson:"role"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the profile before it is written or after it is decoded.
func (p *UserProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: profile id is empty", ErrInvalidRecord)
	}
	switch p.Role {
	case RoleUser, RoleAdmin:
	default:
		return fmt.Errorf("%w: profile %s has role %q", ErrInvalidRecord, p.ID, p.Role)
	}
	return nil
}

// IsAdmin reports whether the profile carries the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
