package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/chillouts/beheer-api/internal/models"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
	"github.com/chillouts/beheer-api/pkg/response"
)

// PermissionResolver yields the effective permissions for the
// authenticated user, including per-account overrides.
type PermissionResolver interface {
	Me(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error)
}

// RequirePermission blocks the request unless the selected permission
// is granted. Admins pass regardless of the selector.
func RequirePermission(resolver PermissionResolver, selector func(models.Permissions) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}

		perms := models.PermissionsForRole(claims.Role)
		if resolver != nil {
			info, err := resolver.Me(c.Request.Context(), claims)
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			perms = info.Permissions
		}

		if !selector(perms) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts the route to administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)
		if claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
