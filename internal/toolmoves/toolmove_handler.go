package toolmoves

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	"toolmove/pkg/models"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ToolMoveHandler struct {
	Service *ToolMoveService
	log     *zap.Logger
}

func NewHandler(s *ToolMoveService, log *zap.Logger) *ToolMoveHandler {
	return &ToolMoveHandler{Service: s, log: log}
}

func (h *ToolMoveHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tool-moves", security.Authorize("user"), h.GetToolMoves)
	router.GET("/tool-moves/outstanding", security.Authorize("user"), h.GetOutstanding)
	router.POST("/tool-moves", security.Authorize("user"), h.CreateToolMove)
	router.PATCH("/tool-moves/:id", security.Authorize("user"), h.UpdateWeldTouchup)
	router.DELETE("/tool-moves/:id", security.Authorize("admin"), h.DeleteToolMove)
}

func (h *ToolMoveHandler) GetToolMoves(c *gin.Context) {
	moves, err := h.Service.List(c.Request.Context(), ListFilter{
		DepartmentID: c.Query("department"),
		LineID:       c.Query("line"),
		StationID:    c.Query("station"),
	})
	if err != nil {
		h.respondError(c, "Unable to list tool moves", err)
		return
	}

	c.JSON(http.StatusOK, moves)
}

func (h *ToolMoveHandler) GetOutstanding(c *gin.Context) {
	moves, err := h.Service.ListOutstanding(c.Request.Context())
	if err != nil {
		h.respondError(c, "Unable to list outstanding weld touchups", err)
		return
	}

	c.JSON(http.StatusOK, moves)
}

func (h *ToolMoveHandler) CreateToolMove(c *gin.Context) {
	var req models.CreateToolMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	move, err := h.Service.Create(c.Request.Context(), req, security.CurrentEmail(c))
	if err != nil {
		h.respondError(c, "Unable to create tool move", err)
		return
	}

	c.JSON(http.StatusCreated, move)
}

func (h *ToolMoveHandler) UpdateWeldTouchup(c *gin.Context) {
	var patch models.WeldTouchupPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	move, err := h.Service.UpdateWeld(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "Unable to update tool move", err)
		return
	}

	c.JSON(http.StatusOK, move)
}

func (h *ToolMoveHandler) DeleteToolMove(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Unable to delete tool move", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ToolMoveHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Tool move not found"})
	default:
		h.log.Error(message, zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": message, "details": err.Error()})
	}
}
