package security

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"toolmove/internal/rate_limiter"
	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginLimit  = 10
	loginWindow = 5 * time.Minute
)

type UserFinder interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type LoginHandler struct {
	users       UserFinder
	tokens      *Tokens
	rateLimiter *rate_limiter.RateLimiter
	log         *zap.Logger
}

func NewLoginHandler(users UserFinder, tokens *Tokens, limiter *rate_limiter.RateLimiter, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		users:       users,
		tokens:      tokens,
		rateLimiter: limiter,
		log:         log,
	}
}

func NewLoginRateLimiter() *rate_limiter.RateLimiter {
	return rate_limiter.NewRateLimiter(loginLimit, loginWindow)
}

func (l *LoginHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", l.Login)
}

func (l *LoginHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", Authorize("user"), l.Me)
}

func (l *LoginHandler) Login(c *gin.Context) {
	key := clientKey(c)
	allowed := l.rateLimiter.IsAllowed(key)

	resetAt := l.rateLimiter.ResetAt(key).UTC().Format(time.RFC3339)
	c.Header("X-RateLimit-Limit", strconv.Itoa(l.rateLimiter.Limit()))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(l.rateLimiter.GetRemainingRequests(key)))
	c.Header("X-RateLimit-Reset", resetAt)

	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message":  "Too many login attempts, try again later",
			"reset_at": resetAt,
		})
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := l.users.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			l.log.Error("login lookup failed", zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := l.tokens.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (l *LoginHandler) Me(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		return
	}

	user, err := l.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// clientKey is the address gin resolved for the request, so forwarded headers
// only count when they come from a trusted proxy. The user agent is added for
// private addresses, where many clients share one IP.
func clientKey(c *gin.Context) string {
	clientIP := c.ClientIP()
	if isPrivateIP(clientIP) {
		return clientIP + ":" + c.GetHeader("User-Agent")
	}
	return clientIP
}

func isPrivateIP(ip string) bool {
	privatePrefixes := []string{
		"10.", "192.168.", "127.", "169.254.",
		"::1", "fc00::", "fe80::",
	}

	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}

	for i := 16; i <= 31; i++ {
		if strings.HasPrefix(ip, "172."+strconv.Itoa(i)+".") {
			return true
		}
	}
	return false
}
