package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
)

const viewerContextKey = "viewer_id"

// Claims is the token payload issued by the auth frontend
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens and resolves the viewer
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates a token validator with the shared signing secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// ValidateToken parses and verifies a JWT, returning the user id it carries
func (a *Authenticator) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims.UserID, nil
	}
	return uuid.Nil, jwt.ErrSignatureInvalid
}

// Middleware resolves the viewer from the Authorization header when one is
// present. Anonymous requests pass through; methods that need a viewer check
// for one themselves, so public reads stay public.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		if userID, err := a.ValidateToken(parts[1]); err == nil {
			c.Set(viewerContextKey, userID)
		}
		c.Next()
	}
}

// Viewer returns the authenticated viewer's id, or nil for anonymous
// requests.
func Viewer(c *gin.Context) *uuid.UUID {
	v, exists := c.Get(viewerContextKey)
	if !exists {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// RequireViewer returns the authenticated viewer or a not-authenticated
// error for anonymous requests.
func RequireViewer(c *gin.Context) (uuid.UUID, error) {
	v := Viewer(c)
	if v == nil {
		return uuid.Nil, apperr.NotAuthenticated("this method requires a signed-in user")
	}
	return *v, nil
}
