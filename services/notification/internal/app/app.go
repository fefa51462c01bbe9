package app

import (
	"time"

	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/database"
	"enterprise-blog/pkg/jwt"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/server"
	"enterprise-blog/pkg/session"
	notificationHTTP "enterprise-blog/services/notification/internal/controller/http"
	"enterprise-blog/services/notification/internal/repo/persistent"
	"enterprise-blog/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/notification/docs" // Swagger docs
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
	queueClient   *queue.Client
	authenticator *session.Authenticator
	server        *server.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithService("notification")
	log.SetLevel(cfg.LogLevel)

	db, err := database.NewDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, continuing without live delivery: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without task consumption)", err)
		queueClient = nil
	}

	tokens := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:           cfg,
		log:           log,
		db:            db,
		redisClient:   redisClient,
		queueClient:   queueClient,
		authenticator: session.NewAuthenticator(tokens, session.NewUserLookup(db)),
	}, nil
}

func (a *App) Run() error {
	notificationRepo := persistent.NewNotificationRepository(a.db)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, a.redisClient, a.log)

	var inspector notificationHTTP.QueueInspector
	if a.queueClient != nil {
		inspector = a.queueClient
		if err := a.queueClient.ConsumeNotificationTasks(notificationUseCase.HandleTask); err != nil {
			return err
		}
	}

	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, a.authenticator, inspector, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), notificationHandler, a.authenticator, a.redisClient)

	a.server = server.New("Notification", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

// RegisterRoutes mounts the inbox API. The WebSocket route authenticates
// itself because browsers cannot attach headers to the upgrade request.
func RegisterRoutes(api *gin.RouterGroup, h *notificationHTTP.NotificationHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	api.GET("/dashboard/notifications/ws", h.HandleWebSocket)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(resolver), middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow))
	{
		protected.GET("/dashboard/notifications", h.GetNotifications)
		protected.PUT("/dashboard/notifications/read-all", h.MarkAllRead)
		protected.PUT("/dashboard/notifications/:id", h.UpdateNotification)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(resolver), middleware.RequireAdmin())
	{
		admin.GET("/notifications/queue", h.QueueStatus)
	}
}

func (a *App) Wait() {
	a.server.Wait()
}

func (a *App) Shutdown() error {
	err := a.server.Shutdown()

	if a.queueClient != nil {
		a.queueClient.Close()
	}

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
