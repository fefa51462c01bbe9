package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

type User struct {
	ID                       string     `gorm:"type:uuid;primary_key" json:"id"`
	Email                    string     `gorm:"uniqueIndex;not null" json:"email"`
	Name                     *string    `gorm:"type:varchar(255)" json:"name"`
	Password                 string     `gorm:"not null" json:"-"`
	AvatarURL                string     `gorm:"type:varchar(500)" json:"avatar_url"`
	Role                     UserRole   `gorm:"type:varchar(20);default:'USER'" json:"role"`
	IsActive                 bool       `gorm:"default:true" json:"is_active"`
	IsEmailVerified          bool       `gorm:"default:false" json:"is_email_verified"`
	EmailVerificationToken   *string    `gorm:"type:varchar(16)" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	LastLoginAt              *time.Time `json:"last_login_at"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
