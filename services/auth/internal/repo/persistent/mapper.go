package persistent

import (
	"enterprise-blog/services/auth/internal/entity"
	"enterprise-blog/services/auth/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:                  m.ID,
		Email:               m.Email,
		Name:                m.Name,
		Password:            m.Password,
		AvatarURL:           m.AvatarURL,
		Role:                entity.UserRole(m.Role),
		IsActive:            m.IsActive,
		IsEmailVerified:     m.IsEmailVerified,
		LastLoginAt:         m.LastLoginAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		VerificationCode:    m.EmailVerificationToken,
		VerificationExpires: m.EmailVerificationExpires,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:                       e.ID,
		Email:                    e.Email,
		Name:                     e.Name,
		Password:                 e.Password,
		AvatarURL:                e.AvatarURL,
		Role:                     string(e.Role),
		IsActive:                 e.IsActive,
		IsEmailVerified:          e.IsEmailVerified,
		EmailVerificationToken:   e.VerificationCode,
		EmailVerificationExpires: e.VerificationExpires,
		LastLoginAt:              e.LastLoginAt,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}
}
