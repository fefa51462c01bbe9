package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Color      string    `gorm:"type:varchar(20);default:'#ffffff'" json:"color"`
	IsPinned   bool      `gorm:"default:false" json:"is_pinned"`
	IsArchived bool      `gorm:"default:false" json:"is_archived"`
	AuthorID   string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Tags       []Tag     `gorm:"many2many:note_tags" json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

type Tag struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// All lists every table in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&Notification{},
		&Tag{},
		&Note{},
	}
}
