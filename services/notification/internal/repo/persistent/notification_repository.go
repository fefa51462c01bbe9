package persistent

import (
	"errors"

	"enterprise-blog/services/notification/internal/entity"
	"enterprise-blog/services/notification/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type NotificationRepository interface {
	Create(notification *entity.Notification) error
	ListByUser(userID string, limit int) ([]*entity.Notification, error)
	SetRead(id, userID string, isRead bool) error
	MarkAllRead(userID string) (int64, error)
	DisplayName(userID string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *entity.Notification) error {
	notificationModel, err := ToNotificationModel(notification)
	if err != nil {
		return err
	}
	if err := r.db.Create(notificationModel).Error; err != nil {
		return err
	}
	notification.ID = notificationModel.ID
	notification.CreatedAt = notificationModel.CreatedAt
	return nil
}

func (r *notificationRepository) ListByUser(userID string, limit int) ([]*entity.Notification, error) {
	var notificationModels []model.NotificationModel
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	notifications := make([]*entity.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = ToNotificationEntity(&notificationModels[i])
	}
	return notifications, nil
}

// SetRead only touches a notification owned by userID; anything else is ErrNotFound.
func (r *notificationRepository) SetRead(id, userID string, isRead bool) error {
	result := r.db.Model(&model.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumn("is_read", isRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.NotificationModel{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(userID string) (int64, error) {
	result := r.db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) DisplayName(userID string) (string, error) {
	var userModel model.UserModel
	err := r.db.Select("id", "name", "email").Where("id = ?", userID).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return ToDisplayName(&userModel), nil
}
