package notifications

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	Repository NotificationRepository
	limit      int
	log        *zap.Logger
}

func NewHandler(r NotificationRepository, limit int, log *zap.Logger) *NotificationHandler {
	if limit <= 0 {
		limit = 50
	}
	return &NotificationHandler{Repository: r, limit: limit, log: log}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/notifications", security.Authorize("user"), h.GetNotifications)
	router.GET("/notifications/unread-count", security.Authorize("user"), h.GetUnreadCount)
	router.POST("/notifications/read-all", security.Authorize("user"), h.MarkAllRead)
	router.POST("/notifications/:id/read", security.Authorize("user"), h.MarkRead)
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	notifications, err := h.Repository.ListForUser(c.Request.Context(), userID, h.limit)
	if err != nil {
		h.log.Error("failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to list notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	count, err := h.Repository.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to count notifications", zap.String("user_id", userID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to count notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	err := h.Repository.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	} else if err != nil {
		h.log.Error("failed to mark notification read", zap.String("user_id", userID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to mark notification read", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := security.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	updated, err := h.Repository.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to mark notifications read", zap.String("user_id", userID), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to mark notifications read", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
