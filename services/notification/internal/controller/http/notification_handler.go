package http

import (
	"errors"
	"net/http"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/notification/internal/entity"
	"enterprise-blog/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// QueueInspector reports the backlog of undelivered notification tasks.
type QueueInspector interface {
	GetQueueLength() (int, error)
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	resolver            middleware.Resolver
	queue               QueueInspector
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, resolver middleware.Resolver, queue QueueInspector, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		resolver:            resolver,
		queue:               queue,
		logger:              logger,
	}
}

type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

type NotificationListResponse struct {
	Notifications []*entity.Notification `json:"notifications"`
}

// GetNotifications godoc
// @Summary      List notifications
// @Description  The caller's 50 most recent notifications, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  NotificationListResponse
// @Failure      401  {object}  map[string]string
// @Router       /dashboard/notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.notificationUseCase.List(middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, NotificationListResponse{Notifications: notifications})
}

// UpdateNotification godoc
// @Summary      Mark a notification read or unread
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string                     true "Notification ID"
// @Param        request  body UpdateNotificationRequest  true "Read state"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/notifications/{id} [put]
func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.notificationUseCase.SetRead(middleware.Viewer(c), c.Param("id"), *req.IsRead); err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification updated successfully"})
}

// MarkAllRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /dashboard/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationUseCase.MarkAllRead(middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications updated successfully", "updated": updated})
}

// QueueStatus godoc
// @Summary      Notification queue backlog
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /admin/notifications/queue [get]
func (h *NotificationHandler) QueueStatus(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Queue is not connected"})
		return
	}

	length, err := h.queue.GetQueueLength()
	if err != nil {
		h.logger.Error("Failed to inspect notification queue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": length})
}

// HandleWebSocket godoc
// @Summary      Live notifications
// @Description  Upgrades to a WebSocket that receives each new notification as JSON. Browsers pass the token as a query parameter.
// @Tags         notifications
// @Param        token query string false "Bearer token when the Authorization header cannot be set"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /dashboard/notifications/ws [get]
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	credential := session.BearerToken(c.GetHeader("Authorization"))
	if credential == "" {
		credential = c.Query("token")
	}
	if credential == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	identity := h.resolver.Resolve(credential)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ctx := c.Request.Context()
	pubsub, err := h.notificationUseCase.Subscribe(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, usecase.ErrStreamUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperror.Message(err)})
			return
		}
		apperror.Respond(c, h.logger, err)
		return
	}
	defer pubsub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", identity.ID)

	redisChannel := pubsub.Channel()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case msg, ok := <-redisChannel:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					h.logger.Warn("Failed to write WebSocket message: %v", err)
					return
				}
			}
		}
	}()

	// Control frames are answered by the connection itself; reads only detect the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logger.Debug("WebSocket read ended: %v", err)
			break
		}
	}

	close(done)
	h.logger.Info("WebSocket disconnected for user %s", identity.ID)
}
