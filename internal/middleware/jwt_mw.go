package middleware

import (
	"fmt"
	"log/slog"
	"strings"

	"user_directory/internal/metrics"
	"user_directory/internal/model"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// JWTAuthMiddleware creates the auth gate. Besides checking the bearer token it asks the
// auth service to re-read the account, so blocked or deleted accounts are rejected even
// while their tokens are still unexpired.
func JWTAuthMiddleware(authService service.AuthService, log *slog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	reject := func(c *gin.Context, err error) {
		_, code, _ := Classify(err)
		m.AuthRejections.WithLabelValues(code).Inc()
		RespondError(c, log, err)
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, fmt.Errorf("%w: authorization header required", service.ErrUnauthenticated))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			reject(c, fmt.Errorf("%w: invalid authorization header format", service.ErrUnauthenticated))
			return
		}

		identity, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			reject(c, err)
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, identity.UserID)
		c.Set(AuthRoleKey, identity.Role)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), *identity))

		c.Next()
	}
}

// GetIdentity returns the identity attached by JWTAuthMiddleware
func GetIdentity(c *gin.Context) (service.Identity, bool) {
	userID, ok := c.Get(AuthUserKey)
	if !ok {
		return service.Identity{}, false
	}
	role, ok := c.Get(AuthRoleKey)
	if !ok {
		return service.Identity{}, false
	}
	id, idOK := userID.(int)
	r, roleOK := role.(model.Role)
	if !idOK || !roleOK {
		return service.Identity{}, false
	}
	return service.Identity{UserID: id, Role: r}, true
}
