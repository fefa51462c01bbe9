package app

import (
	"time"

	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/config"
	"enterprise-blog/pkg/database"
	"enterprise-blog/pkg/email"
	"enterprise-blog/pkg/jwt"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/s3"
	"enterprise-blog/pkg/server"
	"enterprise-blog/pkg/session"
	authHTTP "enterprise-blog/services/auth/internal/controller/http"
	"enterprise-blog/services/auth/internal/repo/persistent"
	"enterprise-blog/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/auth/docs" // Swagger docs
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
	s3Client      *s3.Client
	queueClient   *queue.Client
	authenticator *session.Authenticator
	server        *server.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithService("auth")
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

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("Failed to create S3 client: %v (avatar upload disabled)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without follow notifications)", err)
		queueClient = nil
	}

	tokens := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:           cfg,
		log:           log,
		db:            db,
		redisClient:   redisClient,
		s3Client:      s3Client,
		queueClient:   queueClient,
		authenticator: session.NewAuthenticator(tokens, session.NewUserLookup(db)),
	}, nil
}

func (a *App) Run() error {
	var uploader s3.Uploader
	if a.s3Client != nil {
		uploader = a.s3Client
	}
	var publisher queue.Publisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	userRepo := persistent.NewUserRepository(a.db)
	authUseCase := usecase.NewAuthUseCase(
		userRepo,
		a.authenticator,
		email.NewSMTPSender(a.cfg, a.log),
		uploader,
		publisher,
		a.cfg.OTPTTL,
		a.log,
	)
	authHandler := authHTTP.NewAuthHandler(authUseCase, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), authHandler, a.authenticator, a.redisClient)

	a.server = server.New("Auth", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

func RegisterRoutes(api *gin.RouterGroup, h *authHTTP.AuthHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	limiter := middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow)

	public := api.Group("", limiter)
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/verify-email", h.SendVerification)
		public.PUT("/auth/verify-email", h.VerifyEmail)
		public.POST("/auth/login", h.Login)
		public.GET("/users/:id", h.GetUser)
	}

	protected := api.Group("", middleware.AuthMiddleware(resolver), limiter)
	{
		protected.GET("/auth/me", h.Me)
		protected.PUT("/auth/me", h.UpdateMe)
		protected.POST("/auth/avatar", h.UploadAvatar)
		protected.GET("/users/:id/follow", h.FollowStatus)
		protected.POST("/users/:id/follow", h.Follow)
		protected.DELETE("/users/:id/follow", h.Unfollow)
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

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	return err
}
