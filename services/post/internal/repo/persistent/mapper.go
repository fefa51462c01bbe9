package persistent

import (
	"enterprise-blog/services/post/internal/entity"
	"enterprise-blog/services/post/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:           m.ID,
		Slug:         m.Slug,
		Title:        m.Title,
		Excerpt:      m.Excerpt,
		Content:      m.Content,
		AccessLevel:  entity.AccessLevel(m.AccessLevel),
		Status:       entity.PostStatus(m.Status),
		Featured:     m.Featured,
		Views:        m.Views,
		AuthorID:     m.AuthorID,
		PublishedAt:  m.PublishedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Author:       ToAuthor(m.Author),
		CommentCount: m.CommentCount,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Excerpt:     e.Excerpt,
		Content:     e.Content,
		AccessLevel: string(e.AccessLevel),
		Status:      string(e.Status),
		Featured:    e.Featured,
		Views:       e.Views,
		AuthorID:    e.AuthorID,
		PublishedAt: e.PublishedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		Content:   m.Content,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		Author:    ToAuthor(m.Author),
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:        e.ID,
		Content:   e.Content,
		PostID:    e.PostID,
		AuthorID:  e.AuthorID,
		CreatedAt: e.CreatedAt,
	}
}

func ToAuthor(m *model.UserModel) *entity.Author {
	if m == nil {
		return nil
	}
	return &entity.Author{ID: m.ID, Name: m.Name, Email: m.Email}
}
