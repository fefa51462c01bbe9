package entity

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            *string    `json:"name"`
	Password        string     `json:"-"`
	AvatarURL       string     `json:"avatar_url"`
	Role            UserRole   `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	VerificationCode    *string    `json:"-"`
	VerificationExpires *time.Time `json:"-"`
}

// Profile is what other users may see.
type Profile struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Followers int64     `json:"followers"`
	Following int64     `json:"following"`
}
