package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"not null" json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AccessLevel string     `gorm:"type:varchar(20);default:'PUBLIC';index" json:"access_level"`
	Status      string     `gorm:"type:varchar(20);default:'PUBLISHED'" json:"status"`
	Featured    bool       `gorm:"default:false" json:"featured"`
	Views       int        `gorm:"default:0" json:"views"`
	AuthorID    string     `gorm:"type:uuid;not null;index" json:"author_id"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Author       *UserModel `gorm:"foreignKey:AuthorID" json:"-"`
	CommentCount int64      `gorm:"->;-:migration" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type CommentModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *UserModel `gorm:"foreignKey:AuthorID" json:"-"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// UserModel is the read-only slice of users this service needs for author summaries.
type UserModel struct {
	ID    string  `gorm:"type:uuid;primary_key"`
	Name  *string `gorm:"type:varchar(255)"`
	Email string  `gorm:"uniqueIndex;not null"`
}

func (UserModel) TableName() string {
	return "users"
}
