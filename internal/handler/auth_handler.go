package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"user_directory/internal/metrics"
	"user_directory/internal/middleware"
	"user_directory/internal/model"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *slog.Logger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{service: s, logger: log, metrics: m}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, h.logger, fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, h.logger, fmt.Errorf("%w: invalid request body", service.ErrValidation))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues(loginOutcome(err)).Inc()
		middleware.RespondError(c, h.logger, err)
		return
	}
	h.metrics.LoginAttempts.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
	})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, service.ErrAccountBlocked):
		return "blocked"
	default:
		return "error"
	}
}

// RegisterAuthRoutes registers auth routes. limitMW throttles both endpoints and may be nil.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, limitMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	if limitMW != nil {
		authGroup.Use(limitMW)
	}
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
