package app

import (
	"time"

	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/database"
	"enterprise-blog/pkg/jwt"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/server"
	"enterprise-blog/pkg/session"
	analyticsHTTP "enterprise-blog/services/analytics/internal/controller/http"
	"enterprise-blog/services/analytics/internal/repo/persistent"
	"enterprise-blog/services/analytics/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/analytics/docs" // Swagger docs
)

const (
	rateLimit       = 100
	rateLimitWindow = time.Minute
)

type App struct {
	cfg           *config.Config
	log           *logger.Logger
	db            *gorm.DB
	redisClient   *redis.Client
	authenticator *session.Authenticator
	server        *server.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithService("analytics")
	log.SetLevel(cfg.LogLevel)

	db, err := database.NewDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, continuing without rate limiting and stats caching: %v", err)
		redisClient = nil
	}

	tokens := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:           cfg,
		log:           log,
		db:            db,
		redisClient:   redisClient,
		authenticator: session.NewAuthenticator(tokens, session.NewUserLookup(db)),
	}, nil
}

func (a *App) Run() error {
	analyticsRepo := persistent.NewAnalyticsRepository(a.db)
	analyticsUseCase := usecase.NewAnalyticsUseCase(analyticsRepo, a.redisClient, a.log)
	analyticsHandler := analyticsHTTP.NewAnalyticsHandler(analyticsUseCase, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), analyticsHandler, a.authenticator, a.redisClient)

	a.server = server.New("Analytics", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

func RegisterRoutes(api *gin.RouterGroup, h *analyticsHTTP.AnalyticsHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	protected := api.Group("/dashboard")
	protected.Use(middleware.AuthMiddleware(resolver), middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow))
	{
		protected.GET("/analytics", h.GetDashboard)
		protected.GET("/analytics/posts/:slug", h.GetPostStats)
	}
}

func (a *App) Wait() {
	a.server.Wait()
}

func (a *App) Shutdown() error {
	err := a.server.Shutdown()

	if sqlDB, dbErr := a.db.DB(); dbErr == nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			a.log.Error("Error closing database: %v", closeErr)
		}
	}

	if a.redisClient != nil {
		if closeErr := a.redisClient.Close(); closeErr != nil {
			a.log.Error("Error closing Redis: %v", closeErr)
		}
	}

	return err
}
