package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteModel struct {
	ID         string     `gorm:"column:id;type:uuid;primaryKey"`
	Title      string     `gorm:"column:title;not null"`
	Content    string     `gorm:"column:content;type:text;not null"`
	Color      string     `gorm:"column:color;type:varchar(20);default:'#ffffff'"`
	IsPinned   bool       `gorm:"column:is_pinned;default:false"`
	IsArchived bool       `gorm:"column:is_archived;default:false"`
	AuthorID   string     `gorm:"column:author_id;type:uuid;not null;index"`
	Tags       []TagModel `gorm:"many2many:note_tags;joinForeignKey:NoteID;joinReferences:TagID"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (NoteModel) TableName() string {
	return "notes"
}

func (n *NoteModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

type TagModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (TagModel) TableName() string {
	return "tags"
}

func (t *TagModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
