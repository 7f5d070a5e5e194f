package mw

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"induslink-backend/internal/auth"
	"induslink-backend/internal/model"
)

const userContextKey = "currentUser"

// SessionAuth authenticates requests via the session cookie.
type SessionAuth struct {
	db         *gorm.DB
	tokens     *auth.TokenIssuer
	cookieName string
}

// NewSessionAuth creates the session middleware provider.
func NewSessionAuth(db *gorm.DB, tokens *auth.TokenIssuer, cookieName string) *SessionAuth {
	return &SessionAuth{db: db, tokens: tokens, cookieName: cookieName}
}

// Tokens exposes the issuer so login and registration can mint sessions.
func (a *SessionAuth) Tokens() *auth.TokenIssuer {
	return a.tokens
}

// UserFromRequest resolves the authenticated user, or nil when the request
// carries no valid session.
func (a *SessionAuth) UserFromRequest(c *gin.Context) *model.User {
	token, err := c.Cookie(a.cookieName)
	if err != nil || token == "" {
		return nil
	}
	userID, _, err := a.tokens.Verify(token)
	if err != nil {
		return nil
	}
	var user model.User
	err = a.db.WithContext(c.Request.Context()).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || err != nil {
		return nil
	}
	return &user
}

// RequireAuth rejects requests without a valid session.
func (a *SessionAuth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := a.UserFromRequest(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized."})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role does not satisfy the
// required one (buyer and msme are interchangeable).
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !model.RolesMatch(role, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// AdminKey gates the review queue behind the shared administrator secret.
// The admin channel is deliberately not a user session; a valid
// buyer/supplier cookie grants nothing here.
func AdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Admin key is not configured on the server."})
			return
		}
		provided := c.GetHeader("X-Admin-Key")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden."})
			return
		}
		c.Next()
	}
}
