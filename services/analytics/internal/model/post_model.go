package model

import "time"

// PostModel reads the columns analytics aggregates over.
type PostModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	AuthorID  string    `gorm:"column:author_id;type:uuid;not null"`
	Slug      string    `gorm:"column:slug"`
	Title     string    `gorm:"column:title;type:varchar(255)"`
	Views     int       `gorm:"column:views;type:integer;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (PostModel) TableName() string {
	return "posts"
}
