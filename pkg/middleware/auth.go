package middleware

import (
	"net/http"

	"enterprise-blog/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// Resolver is satisfied by *session.Authenticator.
type Resolver interface {
	Resolve(credential string) *session.Identity
}

// AuthMiddleware rejects requests without a resolvable bearer credential.
func AuthMiddleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := resolver.Resolve(session.BearerToken(c.GetHeader("Authorization")))
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth resolves the caller when it can and continues anonymously otherwise.
func OptionalAuth(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := resolver.Resolve(session.BearerToken(c.GetHeader("Authorization"))); identity != nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Viewer(c).IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Viewer returns the resolved caller, or nil for anonymous requests.
func Viewer(c *gin.Context) *session.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*session.Identity)
	return identity
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func setIdentity(c *gin.Context, identity *session.Identity) {
	c.Set(identityKey, identity)
	c.Set(userIDKey, identity.ID)
	c.Set(userRoleKey, string(identity.Role))
}
