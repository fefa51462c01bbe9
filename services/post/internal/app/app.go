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
	postHTTP "enterprise-blog/services/post/internal/controller/http"
	"enterprise-blog/services/post/internal/repo/persistent"
	"enterprise-blog/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/post/docs" // Swagger docs
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
	log := logger.NewWithService("post")
	log.SetLevel(cfg.LogLevel)

	db, err := database.NewDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, continuing without rate limiting and view dedupe: %v", err)
		redisClient = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without notifications)", err)
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
	var publisher queue.Publisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	postRepo := persistent.NewPostRepository(a.db)
	postUseCase := usecase.NewPostUseCase(postRepo, a.redisClient, publisher, a.log)
	postHandler := postHTTP.NewPostHandler(postUseCase, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), postHandler, a.authenticator, a.redisClient)

	a.server = server.New("Post", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

// RegisterRoutes mounts the post API. Reads resolve the caller when they can;
// writes require a signed-in caller.
func RegisterRoutes(api *gin.RouterGroup, h *postHTTP.PostHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	public := api.Group("")
	public.Use(middleware.OptionalAuth(resolver), middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow))
	{
		public.GET("/posts", h.ListPosts)
		public.GET("/posts/search", h.SearchPosts)
		public.GET("/posts/:slug", h.GetPost)
		public.POST("/posts/:slug/view", h.RecordView)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(resolver), middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow))
	{
		protected.POST("/posts", h.CreatePost)
		protected.PUT("/posts/:slug", h.UpdatePost)
		protected.DELETE("/posts/:slug", h.DeletePost)
		protected.POST("/posts/:slug/comments", h.AddComment)
		protected.POST("/posts/:slug/like", h.LikePost)
		protected.GET("/dashboard/posts", h.ListOwnPosts)
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
