package welds

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	"toolmove/pkg/models"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WeldHandler struct {
	Service *WeldService
	log     *zap.Logger
}

func NewHandler(s *WeldService, log *zap.Logger) *WeldHandler {
	return &WeldHandler{Service: s, log: log}
}

func (h *WeldHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/welds", security.Authorize("user"), h.GetWelds)
	router.POST("/welds", security.Authorize("user"), h.CreateWeld)
	router.PATCH("/welds/:id", security.Authorize("user"), h.UpdateWeld)
	router.DELETE("/welds/:id", security.Authorize("admin"), h.DeleteWeld)
}

func (h *WeldHandler) GetWelds(c *gin.Context) {
	welds, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "Unable to list weld touchups", err)
		return
	}

	c.JSON(http.StatusOK, welds)
}

func (h *WeldHandler) CreateWeld(c *gin.Context) {
	var req models.CreateWeldTouchupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	weld, err := h.Service.Create(c.Request.Context(), req, security.CurrentEmail(c))
	if err != nil {
		h.respondError(c, "Unable to create weld touchup", err)
		return
	}

	c.JSON(http.StatusCreated, weld)
}

func (h *WeldHandler) UpdateWeld(c *gin.Context) {
	var req models.UpdateWeldTouchupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	weld, err := h.Service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, "Unable to update weld touchup", err)
		return
	}

	c.JSON(http.StatusOK, weld)
}

func (h *WeldHandler) DeleteWeld(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Unable to delete weld touchup", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WeldHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Weld touchup not found"})
	default:
		h.log.Error(message, zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message, "details": err.Error()})
	}
}
