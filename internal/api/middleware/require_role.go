package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

// RoleLookup resolves the marketplace role of a signed in user.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (models.UserRole, error)
}

// LoadRole puts the caller's profile role in the context under "role".
// Users without a profile get an empty role.
func LoadRole(lookup RoleLookup, l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		role, err := lookup.RoleOf(c.Request.Context(), userID)
		if err != nil {
			if l != nil {
				l.WithError(err).WithField("user_id", userID).Warn("role lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apiError{
				Code:    utils.CodeUnavailable,
				Message: "could not resolve role",
			})
			return
		}

		c.Set("role", role)
		c.Next()
	}
}

func RequireRole(allowed ...models.UserRole) gin.HandlerFunc {
	allow := map[models.UserRole]struct{}{}
	for _, a := range allowed {
		if a.Valid() {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(models.UserRole)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "onboarding required",
			})
			return
		}

		if _, ok := allow[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "forbidden",
			})
			return
		}

		c.Next()
	}
}

func RequireRecruiter() gin.HandlerFunc { return RequireRole(models.RoleRecruiter) }

func RequireCandidate() gin.HandlerFunc { return RequireRole(models.RoleCandidate) }
