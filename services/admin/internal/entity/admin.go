package entity

import (
	"time"

	"enterprise-blog/pkg/models"
)

// UserSummary is a user row as an administrator sees it. Credentials and
// verification codes are never part of it.
type UserSummary struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Name            *string         `json:"name"`
	Role            models.UserRole `json:"role"`
	IsActive        bool            `json:"is_active"`
	IsEmailVerified bool            `json:"is_email_verified"`
	LastLoginAt     *time.Time      `json:"last_login_at"`
	CreatedAt       time.Time       `json:"created_at"`
	PostCount       int64           `json:"post_count"`
}

type AuthorSummary struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type PostSummary struct {
	ID           string             `json:"id"`
	Slug         string             `json:"slug"`
	Title        string             `json:"title"`
	AccessLevel  models.AccessLevel `json:"access_level"`
	Status       models.PostStatus  `json:"status"`
	Featured     bool               `json:"featured"`
	Views        int                `json:"views"`
	CreatedAt    time.Time          `json:"created_at"`
	Author       AuthorSummary      `json:"author"`
	CommentCount int64              `json:"comment_count"`
}

type SiteAnalytics struct {
	TotalUsers    int64 `json:"total_users"`
	TotalPosts    int64 `json:"total_posts"`
	TotalComments int64 `json:"total_comments"`
	ActiveUsers   int64 `json:"active_users"`
	NewUsersToday int64 `json:"new_users_today"`
	NewPostsToday int64 `json:"new_posts_today"`
}
