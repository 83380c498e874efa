package users

import (
	"errors"
	"net/http"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"
	"toolmove/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UsersHandler struct {
	Repository UserRepository
	log        *zap.Logger
}

func NewHandler(r UserRepository, log *zap.Logger) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		log:        log,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize("admin"), h.RegisterUser)
	router.PATCH("/users/:id", security.Authorize("admin"), h.UpdateUser)
	router.GET("/users/:id", security.Authorize("admin"), h.GetUser)
	router.GET("/users", security.Authorize("admin"), h.GetUserList)
	router.DELETE("/users/:id", security.Authorize("admin"), h.DeleteUser)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Role != "" && !req.Role.IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid role", "details": string(req.Role)})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user, err := h.Repository.PersistUser(c.Request.Context(), req, hashedPassword)
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
		h.log.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to create user",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	userID := c.Param("id")
	ctx := c.Request.Context()

	user, err := h.Repository.GetUser(ctx, userID)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	changes := &models.UserChanges{}

	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		changes.Email = req.Email
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role", "details": string(*req.Role)})
			return
		}
		role := string(*req.Role)
		changes.Role = &role
	}

	changes.Fullname = req.Fullname
	changes.Department = req.Department

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(ctx, userID, changes); err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
			return
		}
		h.respondLookupError(c, err)
		return
	}

	updatedUser, err := h.Repository.GetUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	user, err := h.Repository.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not obtain list of users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	if current, ok := security.CurrentUserID(c); ok && current == userID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot delete your own account"})
		return
	}

	if err := h.Repository.DeleteUser(c.Request.Context(), userID); err != nil {
		h.respondLookupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UsersHandler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found", "code": "USER_NOT_FOUND"})
		return
	}
	h.log.Error("user lookup failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get user", "details": err.Error()})
}
