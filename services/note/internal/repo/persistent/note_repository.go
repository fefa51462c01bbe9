package persistent

import (
	"errors"
	"time"

	"enterprise-blog/services/note/internal/entity"
	"enterprise-blog/services/note/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// NoteChanges carries the columns to overwrite; nil fields are left alone.
// A nil Tags keeps the current tags, an empty one clears them.
type NoteChanges struct {
	Title      *string
	Content    *string
	Color      *string
	IsPinned   *bool
	IsArchived *bool
	Tags       []string
}

// NoteRepository only ever sees notes through their author, so a foreign
// note looks exactly like a missing one.
type NoteRepository interface {
	ListByAuthor(authorID string) ([]*entity.Note, error)
	Get(id, authorID string) (*entity.Note, error)
	Create(note *entity.Note, tagNames []string) (*entity.Note, error)
	Update(id, authorID string, changes NoteChanges) (*entity.Note, error)
	Delete(id, authorID string) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) ListByAuthor(authorID string) ([]*entity.Note, error) {
	var noteModels []model.NoteModel
	err := r.db.Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Where("author_id = ?", authorID).
		Order("is_pinned DESC").
		Order("updated_at DESC").
		Find(&noteModels).Error
	if err != nil {
		return nil, err
	}
	return ToNoteEntities(noteModels), nil
}

func (r *noteRepository) Get(id, authorID string) (*entity.Note, error) {
	noteModel, err := r.find(r.db, id, authorID)
	if err != nil {
		return nil, err
	}
	return ToNoteEntity(noteModel), nil
}

func (r *noteRepository) Create(note *entity.Note, tagNames []string) (*entity.Note, error) {
	var created *model.NoteModel
	err := r.db.Transaction(func(tx *gorm.DB) error {
		tags, err := connectOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}

		noteModel := &model.NoteModel{
			Title:    note.Title,
			Content:  note.Content,
			Color:    note.Color,
			AuthorID: note.AuthorID,
		}
		if err := tx.Omit("Tags").Create(noteModel).Error; err != nil {
			return err
		}
		if err := linkTags(tx, noteModel.ID, tags); err != nil {
			return err
		}

		created, err = r.find(tx, noteModel.ID, note.AuthorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToNoteEntity(created), nil
}

func (r *noteRepository) Update(id, authorID string, changes NoteChanges) (*entity.Note, error) {
	var updated *model.NoteModel
	err := r.db.Transaction(func(tx *gorm.DB) error {
		noteModel, err := r.find(tx, id, authorID)
		if err != nil {
			return err
		}

		columns := map[string]interface{}{}
		if changes.Title != nil {
			columns["title"] = *changes.Title
		}
		if changes.Content != nil {
			columns["content"] = *changes.Content
		}
		if changes.Color != nil {
			columns["color"] = *changes.Color
		}
		if changes.IsPinned != nil {
			columns["is_pinned"] = *changes.IsPinned
		}
		if changes.IsArchived != nil {
			columns["is_archived"] = *changes.IsArchived
		}
		if changes.Tags != nil && len(columns) == 0 {
			columns["updated_at"] = time.Now()
		}
		if len(columns) > 0 {
			if err := tx.Model(&model.NoteModel{}).Where("id = ?", noteModel.ID).Updates(columns).Error; err != nil {
				return err
			}
		}

		if changes.Tags != nil {
			tags, err := connectOrCreateTags(tx, changes.Tags)
			if err != nil {
				return err
			}
			if err := unlinkTags(tx, noteModel.ID); err != nil {
				return err
			}
			if err := linkTags(tx, noteModel.ID, tags); err != nil {
				return err
			}
		}

		updated, err = r.find(tx, id, authorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToNoteEntity(updated), nil
}

func (r *noteRepository) Delete(id, authorID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		noteModel, err := r.find(tx, id, authorID)
		if err != nil {
			return err
		}
		if err := unlinkTags(tx, noteModel.ID); err != nil {
			return err
		}
		return tx.Omit("Tags").Delete(noteModel).Error
	})
}

func (r *noteRepository) find(db *gorm.DB, id, authorID string) (*model.NoteModel, error) {
	var noteModel model.NoteModel
	err := db.Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Where("id = ? AND author_id = ?", id, authorID).
		First(&noteModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &noteModel, nil
}

func connectOrCreateTags(tx *gorm.DB, names []string) ([]model.TagModel, error) {
	tags := make([]model.TagModel, 0, len(names))
	for _, name := range names {
		var tag model.TagModel
		if err := tx.Where(model.TagModel{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func linkTags(tx *gorm.DB, noteID string, tags []model.TagModel) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, len(tags))
	for i, tag := range tags {
		rows[i] = map[string]interface{}{"note_id": noteID, "tag_id": tag.ID}
	}
	return tx.Table("note_tags").Create(rows).Error
}

func unlinkTags(tx *gorm.DB, noteID string) error {
	return tx.Exec("DELETE FROM note_tags WHERE note_id = ?", noteID).Error
}
