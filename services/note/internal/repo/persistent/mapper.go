package persistent

import (
	"enterprise-blog/services/note/internal/entity"
	"enterprise-blog/services/note/internal/model"
)

func ToNoteEntity(m *model.NoteModel) *entity.Note {
	if m == nil {
		return nil
	}

	tags := make([]entity.Tag, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = entity.Tag{ID: t.ID, Name: t.Name}
	}

	return &entity.Note{
		ID:         m.ID,
		Title:      m.Title,
		Content:    m.Content,
		Color:      m.Color,
		IsPinned:   m.IsPinned,
		IsArchived: m.IsArchived,
		AuthorID:   m.AuthorID,
		Tags:       tags,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToNoteEntities(models []model.NoteModel) []*entity.Note {
	notes := make([]*entity.Note, len(models))
	for i := range models {
		notes[i] = ToNoteEntity(&models[i])
	}
	return notes
}
