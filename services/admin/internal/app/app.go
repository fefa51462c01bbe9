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
	adminHTTP "enterprise-blog/services/admin/internal/controller/http"
	"enterprise-blog/services/admin/internal/repo/persistent"
	"enterprise-blog/services/admin/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/admin/docs" // Swagger docs
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
	log := logger.NewWithService("admin")
	log.SetLevel(cfg.LogLevel)

	db, err := database.NewDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, continuing without rate limiting: %v", err)
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
	adminRepo := persistent.NewAdminRepository(a.db)
	adminUseCase := usecase.NewAdminUseCase(adminRepo, a.log)
	adminHandler := adminHTTP.NewAdminHandler(adminUseCase, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), adminHandler, a.authenticator, a.redisClient)

	a.server = server.New("Admin", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

func RegisterRoutes(api *gin.RouterGroup, h *adminHTTP.AdminHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	admin := api.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(resolver),
		middleware.RequireAdmin(),
		middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow),
	)
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.GET("/posts", h.ListPosts)
		admin.PUT("/posts/:id", h.UpdatePost)
		admin.GET("/analytics", h.Analytics)
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
