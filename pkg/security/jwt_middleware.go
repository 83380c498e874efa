package security

import (
	"net/http"
	"strings"

	"toolmove/pkg/roles"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware validates the bearer token and stores its claims on the context.
func (t *Tokens) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := t.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(claimUserID, claims[claimUserID])
		c.Set(claimRole, claims[claimRole])
		c.Set(claimEmail, claims[claimEmail])
		c.Next()
	}
}

// Authorize ensures the user has the required role.
func Authorize(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(claimRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient permissions"})
			return
		}
		userRole, ok := role.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: invalid role"})
			return
		}

		if !roles.Role(userRole).HasPermission(roles.Role(requiredRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient permissions"})
			return
		}

		c.Next()
	}
}

func CurrentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(claimUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

func CurrentEmail(c *gin.Context) string {
	value, _ := c.Get(claimEmail)
	email, _ := value.(string)
	return email
}
