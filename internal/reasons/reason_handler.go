package reasons

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
)

type ReasonHandler struct {
	Repository ReasonRepository
}

func NewHandler(r ReasonRepository) *ReasonHandler {
	return &ReasonHandler{Repository: r}
}

func (h *ReasonHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reasons", security.Authorize("user"), h.GetReasons)
	router.POST("/reasons", security.Authorize("admin"), h.CreateReason)
	router.DELETE("/reasons/:id", security.Authorize("admin"), h.DeleteReason)
}

func (h *ReasonHandler) GetReasons(c *gin.Context) {
	reasons, err := h.Repository.GetReasons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch reasons", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, reasons)
}

func (h *ReasonHandler) CreateReason(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	reason, err := h.Repository.PersistReason(c.Request.Context(), req)
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Reason already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to create reason", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reason)
}

func (h *ReasonHandler) DeleteReason(c *gin.Context) {
	err := h.Repository.DeleteReason(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Reason not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to delete reason", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reason deleted"})
}
