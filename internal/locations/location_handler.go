package locations

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type LocationHandler struct {
	Repository Repository
}

func NewLocationHandler(r Repository) *LocationHandler {
	return &LocationHandler{Repository: r}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/locations", security.Authorize("user"), h.GetLocations)
	router.POST("/locations/departments", security.Authorize("admin"), h.CreateDepartment)
	router.POST("/locations/lines", security.Authorize("admin"), h.CreateLine)
	router.POST("/locations/stations", security.Authorize("admin"), h.CreateStation)
	router.DELETE("/locations/departments/:id", security.Authorize("admin"), h.remove(departmentsTable, "Department"))
	router.DELETE("/locations/lines/:id", security.Authorize("admin"), h.remove(linesTable, "Line"))
	router.DELETE("/locations/stations/:id", security.Authorize("admin"), h.remove(stationsTable, "Station"))
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	var (
		departments []models.Department
		lines       []models.Line
		stations    []models.Station
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		departments, err = h.Repository.GetDepartments(ctx)
		return err
	})
	g.Go(func() (err error) {
		lines, err = h.Repository.GetLines(ctx)
		return err
	})
	g.Go(func() (err error) {
		stations, err = h.Repository.GetStations(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildHierarchy(departments, lines, stations))
}

func (h *LocationHandler) CreateDepartment(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	department, err := h.Repository.PersistDepartment(c.Request.Context(), req)
	if err != nil {
		respondPersistError(c, "department", err)
		return
	}

	c.JSON(http.StatusCreated, department)
}

func (h *LocationHandler) CreateLine(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}
	if !repository.IsUUID(req.Department) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Department is required"})
		return
	}

	line, err := h.Repository.PersistLine(c.Request.Context(), req)
	if err != nil {
		respondPersistError(c, "line", err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

func (h *LocationHandler) CreateStation(c *gin.Context) {
	var req models.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}
	if !repository.IsUUID(req.Line) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Line is required"})
		return
	}

	station, err := h.Repository.PersistStation(c.Request.Context(), req)
	if err != nil {
		respondPersistError(c, "station", err)
		return
	}

	c.JSON(http.StatusCreated, station)
}

func (h *LocationHandler) remove(table, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.Repository.Remove(c.Request.Context(), table, c.Param("id"))
		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": label + " not found"})
			return
		} else if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not delete " + table, "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": label + " deleted successfully"})
	}
}

func respondPersistError(c *gin.Context, label string, err error) {
	switch {
	case custom_error.IsUniqueViolation(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Could not insert " + label + ", name not unique", "details": err.Error()})
	case custom_error.IsForeignKeyViolation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Parent of " + label + " does not exist", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not insert " + label, "details": err.Error()})
	}
}
