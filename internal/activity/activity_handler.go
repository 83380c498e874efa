package activity

import (
	"errors"
	"net/http"

	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	service *ActivityService
	log     *zap.Logger
}

func NewHandler(s *ActivityService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{service: s, log: log}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity", security.Authorize("user"), h.GetActivity)
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	var query Query
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query", "details": err.Error()})
		return
	}

	items, err := h.service.List(c.Request.Context(), query)
	if errors.Is(err, ErrValidation) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid query", "details": err.Error()})
		return
	} else if err != nil {
		h.log.Error("failed to build activity feed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Unable to retrieve activity", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}
