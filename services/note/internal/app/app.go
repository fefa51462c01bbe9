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
	noteHTTP "enterprise-blog/services/note/internal/controller/http"
	"enterprise-blog/services/note/internal/repo/persistent"
	"enterprise-blog/services/note/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "enterprise-blog/services/note/docs" // Swagger docs
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
	log := logger.NewWithService("note")
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
	noteRepo := persistent.NewNoteRepository(a.db)
	noteUseCase := usecase.NewNoteUseCase(noteRepo, a.log)
	noteHandler := noteHTTP.NewNoteHandler(noteUseCase, a.log)

	r := server.NewRouter(a.cfg, a.log)
	RegisterRoutes(r.Group("/api/v1"), noteHandler, a.authenticator, a.redisClient)

	a.server = server.New("Note", a.cfg.ServerPort, r, a.log)
	a.server.Start()
	return nil
}

func RegisterRoutes(api *gin.RouterGroup, h *noteHTTP.NoteHandler, resolver middleware.Resolver, redisClient *redis.Client) {
	notes := api.Group("/notes")
	notes.Use(middleware.AuthMiddleware(resolver), middleware.RateLimitMiddleware(redisClient, rateLimit, rateLimitWindow))
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
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
