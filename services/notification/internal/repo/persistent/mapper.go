package persistent

import (
	"encoding/json"

	"enterprise-blog/services/notification/internal/entity"
	"enterprise-blog/services/notification/internal/model"
)

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}

	n := &entity.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
	if m.Data != "" {
		// Unparseable payloads are dropped rather than failing the whole inbox.
		_ = json.Unmarshal([]byte(m.Data), &n.Data)
	}
	return n
}

func ToNotificationModel(e *entity.Notification) (*model.NotificationModel, error) {
	if e == nil {
		return nil, nil
	}

	m := &model.NotificationModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		IsRead:    e.IsRead,
		CreatedAt: e.CreatedAt,
	}
	if len(e.Data) > 0 {
		data, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		m.Data = string(data)
	}
	return m, nil
}

func ToDisplayName(m *model.UserModel) string {
	if m == nil {
		return ""
	}
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	return m.Email
}
