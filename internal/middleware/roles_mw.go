package middleware

import (
	"net/http"
	"slices"

	"user_directory/internal/metrics"
	"user_directory/internal/model"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles.
// It only reads what the auth gate attached and never touches the store.
func RoleMiddleware(m *metrics.Metrics, allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		forbid := func(msg string) {
			m.AuthRejections.WithLabelValues(CodeForbidden).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody(CodeForbidden, msg))
		}

		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			forbid("role not found, ensure the auth middleware runs first")
			return
		}

		userRole, ok := roleVal.(model.Role)
		if !ok || !slices.Contains(allowedRoles, userRole) {
			forbid(service.ErrForbidden.Error())
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return RoleMiddleware(m, model.RoleAdmin)
}
