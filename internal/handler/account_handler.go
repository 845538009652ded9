package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"user_directory/internal/metrics"
	"user_directory/internal/middleware"
	"user_directory/internal/model"
	"user_directory/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles the user directory endpoints
type AccountHandler struct {
	service service.AccountService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(s service.AccountService, log *slog.Logger, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{service: s, logger: log, metrics: m}
}

func parseUserID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user ID", service.ErrValidation)
	}
	return id, nil
}

func (h *AccountHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Me returns the caller's own account
func (h *AccountHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		middleware.RespondError(c, h.logger, service.ErrUnauthenticated)
		return
	}
	user, err := h.service.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) Get(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) Block(c *gin.Context) {
	h.setStatus(c, string(model.StatusBlocked))
}

func (h *AccountHandler) Unblock(c *gin.Context) {
	h.setStatus(c, string(model.StatusActive))
}

// SetStatus applies the status given in the body
func (h *AccountHandler) SetStatus(c *gin.Context) {
	var req model.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, h.logger, fmt.Errorf("%w: status is required", service.ErrValidation))
		return
	}
	h.setStatus(c, req.Status)
}

func (h *AccountHandler) setStatus(c *gin.Context, status string) {
	id, err := parseUserID(c)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	user, _, err := h.service.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	removed, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"user":    removed,
	})
}

func (h *AccountHandler) BulkBlock(c *gin.Context) {
	h.bulkSetStatus(c, "bulk_block", string(model.StatusBlocked))
}

func (h *AccountHandler) BulkUnblock(c *gin.Context) {
	h.bulkSetStatus(c, "bulk_unblock", string(model.StatusActive))
}

func (h *AccountHandler) bulkSetStatus(c *gin.Context, op, status string) {
	ids, ok := h.bindIDs(c)
	if !ok {
		return
	}
	res, err := h.service.BulkSetStatus(c.Request.Context(), ids, status)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	h.respondBulk(c, op, res)
}

func (h *AccountHandler) BulkDelete(c *gin.Context) {
	ids, ok := h.bindIDs(c)
	if !ok {
		return
	}
	res, err := h.service.BulkDelete(c.Request.Context(), ids)
	if err != nil {
		middleware.RespondError(c, h.logger, err)
		return
	}
	h.respondBulk(c, "bulk_delete", res)
}

func (h *AccountHandler) bindIDs(c *gin.Context) ([]int, bool) {
	var req model.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, h.logger, fmt.Errorf("%w: ids must be a list of user IDs", service.ErrValidation))
		return nil, false
	}
	return req.IDs, true
}

func (h *AccountHandler) respondBulk(c *gin.Context, op string, res *model.BulkResult) {
	for _, r := range res.Results {
		h.metrics.BulkOutcomes.WithLabelValues(op, string(r.Outcome)).Inc()
	}
	c.JSON(http.StatusOK, res)
}

// RegisterUserRoutes registers the directory routes behind authMW. When adminMW is not
// nil the mutating routes also require it.
func (h *AccountHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMW)
	{
		users.GET("", h.List)
		users.GET("/me", h.Me)
		users.GET("/:id", h.Get)
	}

	mutations := users.Group("")
	if adminMW != nil {
		mutations.Use(adminMW)
	}
	{
		mutations.PATCH("/block", h.BulkBlock)
		mutations.PATCH("/unblock", h.BulkUnblock)
		mutations.DELETE("", h.BulkDelete)
		mutations.PATCH("/:id/block", h.Block)
		mutations.PATCH("/:id/unblock", h.Unblock)
		mutations.PUT("/:id/status", h.SetStatus)
		mutations.DELETE("/:id", h.Delete)
	}
}
