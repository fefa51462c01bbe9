package entity

import "time"

type AccessLevel string

const (
	AccessPublic   AccessLevel = "PUBLIC"
	AccessInternal AccessLevel = "INTERNAL"
	AccessPrivate  AccessLevel = "PRIVATE"
)

func (a AccessLevel) Valid() bool {
	return a == AccessPublic || a == AccessInternal || a == AccessPrivate
}

type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Author is the public summary of a user attached to posts and comments.
type Author struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type Post struct {
	ID           string      `json:"id"`
	Slug         string      `json:"slug"`
	Title        string      `json:"title"`
	Excerpt      *string     `json:"excerpt"`
	Content      string      `json:"content"`
	AccessLevel  AccessLevel `json:"access_level"`
	Status       PostStatus  `json:"status"`
	Featured     bool        `json:"featured"`
	Views        int         `json:"views"`
	AuthorID     string      `json:"author_id"`
	PublishedAt  *time.Time  `json:"published_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Author       *Author     `json:"author,omitempty"`
	CommentCount int64       `json:"comment_count"`
	Comments     []*Comment  `json:"comments,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}

// Pagination is 1-indexed; Pages is ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// PostDetail is a single post as shown to one viewer.
type PostDetail struct {
	Post      *Post `json:"post"`
	LikeCount int64 `json:"like_count"`
	IsLiked   bool  `json:"is_liked"`
}
