package persistent

import (
	"enterprise-blog/services/analytics/internal/entity"
	"enterprise-blog/services/analytics/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}
	return &entity.Post{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Slug:      m.Slug,
		Title:     m.Title,
		Views:     m.Views,
		CreatedAt: m.CreatedAt,
	}
}
