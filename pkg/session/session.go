// Package session turns bearer credentials into identities.
//
// Resolve never fails loudly: a missing, malformed, expired or orphaned
// credential resolves to nil and the caller decides whether anonymous is
// acceptable.
package session

import (
	"errors"
	"strings"

	"enterprise-blog/pkg/jwt"
	"enterprise-blog/pkg/models"

	"gorm.io/gorm"
)

type Identity struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  *string         `json:"name"`
	Role  models.UserRole `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// UserLookup returns (nil, nil) for an unknown id.
type UserLookup interface {
	FindByID(id string) (*Identity, error)
}

type Authenticator struct {
	tokens *jwt.Service
	users  UserLookup
}

func NewAuthenticator(tokens *jwt.Service, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Resolve(credential string) *Identity {
	if credential == "" {
		return nil
	}

	claims, err := a.tokens.ValidateToken(credential)
	if err != nil {
		return nil
	}

	identity, err := a.users.FindByID(claims.UserID)
	if err != nil || identity == nil {
		return nil
	}
	return identity
}

func (a *Authenticator) Issue(userID string) (string, error) {
	return a.tokens.GenerateToken(userID)
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type gormUserLookup struct {
	db *gorm.DB
}

// NewUserLookup reads identities from the shared users table. Deactivated
// accounts are treated as unknown.
func NewUserLookup(db *gorm.DB) UserLookup {
	return &gormUserLookup{db: db}
}

func (l *gormUserLookup) FindByID(id string) (*Identity, error) {
	var user models.User
	err := l.db.Select("id", "email", "name", "role", "is_active").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	return &Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
