package entity

import "time"

type Post struct {
	ID        string
	AuthorID  string
	Slug      string
	Title     string
	Views     int
	CreatedAt time.Time
}

// DashboardStats summarizes everything a user has published and their audience.
type DashboardStats struct {
	TotalPosts    int64 `json:"total_posts"`
	TotalViews    int64 `json:"total_views"`
	TotalLikes    int64 `json:"total_likes"`
	TotalComments int64 `json:"total_comments"`
	Followers     int64 `json:"followers"`
	Following     int64 `json:"following"`
}

type PostStats struct {
	PostID    string    `json:"post_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Views     int       `json:"views"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}
