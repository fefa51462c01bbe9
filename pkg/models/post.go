package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessLevel string

const (
	AccessPublic   AccessLevel = "PUBLIC"
	AccessInternal AccessLevel = "INTERNAL"
	AccessPrivate  AccessLevel = "PRIVATE"
)

type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
)

type Post struct {
	ID          string      `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string      `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string      `gorm:"not null" json:"title"`
	Excerpt     *string     `json:"excerpt"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	AccessLevel AccessLevel `gorm:"type:varchar(20);default:'PUBLIC';index" json:"access_level"`
	Status      PostStatus  `gorm:"type:varchar(20);default:'PUBLISHED'" json:"status"`
	Featured    bool        `gorm:"default:false" json:"featured"`
	Views       int         `gorm:"default:0" json:"views"`
	AuthorID    string      `gorm:"type:uuid;not null;index" json:"author_id"`
	PublishedAt *time.Time  `json:"published_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type Comment struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
