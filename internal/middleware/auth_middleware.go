package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
)

const principalKey = "principal"

// AuthMiddleware guards routes with the bearer token issued at login
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate requires a valid bearer token of either role
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// RequireTrainer requires a valid token issued to a personal trainer
func (m *AuthMiddleware) RequireTrainer() gin.HandlerFunc {
	return m.requireRole(models.RoleTrainer)
}

// RequireStudent requires a valid token issued to a student
func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.requireRole(models.RoleStudent)
}

func (m *AuthMiddleware) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := m.authenticate(c)
		if !ok {
			return
		}
		if principal.Role != role {
			HandleAPIError(c, apperrors.ErrAccessDenied)
			return
		}
		c.Next()
	}
}

// authenticate resolves the principal once per request, aborting on failure
func (m *AuthMiddleware) authenticate(c *gin.Context) (auth.Principal, bool) {
	if principal, ok := PrincipalFrom(c); ok {
		return principal, true
	}

	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		HandleAPIError(c, apperrors.ErrMissingToken)
		return auth.Principal{}, false
	}

	principal, err := m.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			c.Header("WWW-Authenticate", `Bearer error="invalid_token", error_description="expired"`)
		}
		HandleAPIError(c, apperrors.ErrInvalidToken)
		return auth.Principal{}, false
	}

	c.Set(principalKey, principal)
	return principal, true
}

// PrincipalFrom returns the authenticated caller stored by the auth middleware
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := v.(auth.Principal)
	return principal, ok
}
