package model

import "time"

type LikeModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null"`
	PostID    string    `gorm:"column:post_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (LikeModel) TableName() string {
	return "likes"
}

type CommentModel struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey"`
	PostID   string `gorm:"column:post_id;type:uuid;not null"`
	AuthorID string `gorm:"column:author_id;type:uuid;not null"`
}

func (CommentModel) TableName() string {
	return "comments"
}

type FollowModel struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey"`
	FollowerID  string `gorm:"column:follower_id;type:uuid;not null"`
	FollowingID string `gorm:"column:following_id;type:uuid;not null"`
}

func (FollowModel) TableName() string {
	return "follows"
}
