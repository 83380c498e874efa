package container

import (
	"database/sql"
	"fmt"

	"toolmove/internal/activity"
	"toolmove/internal/core/config"
	"toolmove/internal/locations"
	"toolmove/internal/middleware"
	"toolmove/internal/notifications"
	"toolmove/internal/rate_limiter"
	"toolmove/internal/reasons"
	"toolmove/internal/repository"
	"toolmove/internal/toolmoves"
	"toolmove/internal/users"
	"toolmove/internal/welds"
	"toolmove/pkg/security"

	"go.uber.org/zap"
)

const version = "1.0.0"

type Container struct {
	Repository          *repository.Repository
	UsersRepository     *users.PostgresRepository
	Tokens              *security.Tokens
	LoginRateLimiter    *rate_limiter.RateLimiter
	Dispatcher          *notifications.Dispatcher
	HealthChecker       *middleware.HealthChecker
	LoginHandler        *security.LoginHandler
	UserHandler         *users.UsersHandler
	LocationHandler     *locations.LocationHandler
	ReasonHandler       *reasons.ReasonHandler
	ToolMoveHandler     *toolmoves.ToolMoveHandler
	WeldHandler         *welds.WeldHandler
	NotificationHandler *notifications.NotificationHandler
	ActivityHandler     *activity.ActivityHandler
}

func NewAppContainer(db *sql.DB, cfg *config.Config, log *zap.Logger) (*Container, error) {
	tokens, err := security.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("configure tokens: %w", err)
	}

	repo := repository.NewRepository(db)
	userRepo := users.NewRepository(repo)
	reasonRepo := reasons.NewRepository(repo)
	locationRepo := locations.NewLocationRepository(repo)
	toolMoveRepo := toolmoves.NewRepository(repo)
	weldRepo := welds.NewRepository(repo)
	notificationRepo := notifications.NewRepository(repo)

	dispatcher := notifications.NewDispatcher(notificationRepo, userRepo, log.Named("dispatcher"), cfg.Dispatcher)
	loginLimiter := security.NewLoginRateLimiter()

	toolMoveService := toolmoves.NewService(toolMoveRepo, reasonRepo)
	weldService := welds.NewService(weldRepo, dispatcher)
	activityService := activity.NewService(toolMoveRepo, weldRepo)

	return &Container{
		Repository:          repo,
		UsersRepository:     userRepo,
		Tokens:              tokens,
		LoginRateLimiter:    loginLimiter,
		Dispatcher:          dispatcher,
		HealthChecker:       middleware.NewHealthChecker(db, version),
		LoginHandler:        security.NewLoginHandler(userRepo, tokens, loginLimiter, log),
		UserHandler:         users.NewHandler(userRepo, log),
		LocationHandler:     locations.NewLocationHandler(locationRepo),
		ReasonHandler:       reasons.NewHandler(reasonRepo),
		ToolMoveHandler:     toolmoves.NewHandler(toolMoveService, log),
		WeldHandler:         welds.NewHandler(weldService, log),
		NotificationHandler: notifications.NewHandler(notificationRepo, cfg.Notification.Limit, log),
		ActivityHandler:     activity.NewHandler(activityService, log),
	}, nil
}
