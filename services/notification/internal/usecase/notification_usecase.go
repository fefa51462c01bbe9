package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/notification/internal/entity"
	"enterprise-blog/services/notification/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// InboxSize is how many notifications a listing returns.
const InboxSize = 50

var (
	ErrUnauthorized         = apperror.New(apperror.Unauthenticated, "Unauthorized")
	ErrNotificationNotFound = apperror.New(apperror.NotFound, "Notification not found")
	ErrStreamUnavailable    = apperror.New(apperror.Internal, "Live notifications are unavailable")
	ErrInvalidTask          = errors.New("invalid notification task")
)

type NotificationUseCase interface {
	List(viewer *session.Identity) ([]*entity.Notification, error)
	SetRead(viewer *session.Identity, id string, isRead bool) error
	MarkAllRead(viewer *session.Identity) (int64, error)
	HandleTask(task queue.NotificationTask) error
	Subscribe(ctx context.Context, userID string) (*redis.PubSub, error)
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	redisClient      *redis.Client
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, redisClient *redis.Client, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
		logger:           logger,
	}
}

func (uc *notificationUseCase) List(viewer *session.Identity) ([]*entity.Notification, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}
	notifications, err := uc.notificationRepo.ListByUser(viewer.ID, InboxSize)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch notifications", err)
	}
	return notifications, nil
}

func (uc *notificationUseCase) SetRead(viewer *session.Identity, id string, isRead bool) error {
	if viewer == nil {
		return ErrUnauthorized
	}
	err := uc.notificationRepo.SetRead(id, viewer.ID, isRead)
	if errors.Is(err, persistent.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return apperror.Wrap(apperror.Internal, "Failed to update notification", err)
	}
	return nil
}

func (uc *notificationUseCase) MarkAllRead(viewer *session.Identity) (int64, error) {
	if viewer == nil {
		return 0, ErrUnauthorized
	}
	updated, err := uc.notificationRepo.MarkAllRead(viewer.ID)
	if err != nil {
		return 0, apperror.Wrap(apperror.Internal, "Failed to update notifications", err)
	}
	return updated, nil
}

// HandleTask turns a queued task into a stored notification and pushes it to
// any live connection of the recipient.
func (uc *notificationUseCase) HandleTask(task queue.NotificationTask) error {
	if task.UserID == "" || task.ActorID == "" {
		uc.logger.Error("[NOTIFICATION HANDLER] Invalid %s task: missing user_id or actor_id, task=%+v", task.Type, task)
		return ErrInvalidTask
	}

	actor := task.ActorName
	if actor == "" {
		name, err := uc.notificationRepo.DisplayName(task.ActorID)
		if err != nil {
			uc.logger.Warn("[NOTIFICATION HANDLER] Failed to resolve actor %s: %v", task.ActorID, err)
			name = "Someone"
		}
		actor = name
	}

	notification := &entity.Notification{
		UserID: task.UserID,
		Type:   task.Type,
		Data:   map[string]interface{}{"actor_id": task.ActorID},
	}
	if task.PostID != "" {
		notification.Data["post_id"] = task.PostID
		notification.Data["post_slug"] = task.PostSlug
	}

	switch task.Type {
	case queue.RoutingComment:
		notification.Title = "New Comment"
		notification.Message = fmt.Sprintf("%s commented on your post \"%s\"", actor, task.PostTitle)
	case queue.RoutingLike:
		notification.Title = "New Like"
		notification.Message = fmt.Sprintf("%s liked your post \"%s\"", actor, task.PostTitle)
	case queue.RoutingFollow:
		notification.Title = "New Follower"
		notification.Message = fmt.Sprintf("%s started following you", actor)
	default:
		uc.logger.Error("[NOTIFICATION HANDLER] Unknown task type %q", task.Type)
		return ErrInvalidTask
	}

	if err := uc.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	uc.logger.Info("[NOTIFICATION HANDLER] Stored %s notification %s for user %s", task.Type, notification.ID, task.UserID)

	uc.push(notification)
	return nil
}

func (uc *notificationUseCase) push(notification *entity.Notification) {
	if uc.redisClient == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		uc.logger.Error("[NOTIFICATION HANDLER] Failed to marshal notification: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	channel := cache.NotificationChannel(notification.UserID)
	receivers, err := uc.redisClient.Publish(ctx, channel, payload).Result()
	if err != nil {
		uc.logger.Warn("[NOTIFICATION HANDLER] Failed to publish to %s: %v", channel, err)
		return
	}
	uc.logger.Debug("[NOTIFICATION HANDLER] Published to %s, receivers=%d", channel, receivers)
}

// Subscribe opens the recipient's live channel. The caller closes it.
func (uc *notificationUseCase) Subscribe(ctx context.Context, userID string) (*redis.PubSub, error) {
	if uc.redisClient == nil {
		return nil, ErrStreamUnavailable
	}
	pubsub := uc.redisClient.Subscribe(ctx, cache.NotificationChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, apperror.Wrap(apperror.Internal, "Live notifications are unavailable", err)
	}
	return pubsub, nil
}
