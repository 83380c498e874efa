package routes

import (
	"fmt"
	"time"

	"toolmove/internal/core/config"
	"toolmove/internal/core/container"
	"toolmove/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(cfg config.ServerConfig, c *container.Container, log *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestLogger(log),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
	)

	RegisterPublicRoutes(router, c)
	RegisterProtectedRoutes(router, c)

	return router, nil
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	public := router.Group("")

	c.LoginHandler.RegisterRoutes(public)
	public.GET("/health", c.HealthChecker.Handler())
}

func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(c.Tokens.JWTMiddleware())

	c.LoginHandler.RegisterProtectedRoutes(protectedRoutes)
	c.UserHandler.RegisterRoutes(protectedRoutes)
	c.LocationHandler.RegisterRoutes(protectedRoutes)
	c.ReasonHandler.RegisterRoutes(protectedRoutes)
	c.ToolMoveHandler.RegisterRoutes(protectedRoutes)
	c.WeldHandler.RegisterRoutes(protectedRoutes)
	c.NotificationHandler.RegisterRoutes(protectedRoutes)
	c.ActivityHandler.RegisterRoutes(protectedRoutes)
}
