package persistent

import (
	"context"
	"errors"
	"time"

	"enterprise-blog/pkg/models"
	"enterprise-blog/services/admin/internal/entity"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type AdminRepository interface {
	ListUsers() ([]*entity.UserSummary, error)
	SetUserActive(id string, active bool) error
	DeleteUserCascade(id string) error
	ListPosts() ([]*entity.PostSummary, error)
	SetPostFeatured(id string, featured bool) error
	DeletePostCascade(id string) error
	SiteAnalytics(ctx context.Context, activeSince, dayStart time.Time) (*entity.SiteAnalytics, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

type userRow struct {
	ID              string
	Email           string
	Name            *string
	Role            models.UserRole
	IsActive        bool
	IsEmailVerified bool
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	PostCount       int64
}

func (r *adminRepository) ListUsers() ([]*entity.UserSummary, error) {
	var rows []userRow
	err := r.db.Model(&models.User{}).
		Select("users.id, users.email, users.name, users.role, users.is_active, users.is_email_verified, " +
			"users.last_login_at, users.created_at, (SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id) AS post_count").
		Order("users.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	users := make([]*entity.UserSummary, len(rows))
	for i, row := range rows {
		users[i] = &entity.UserSummary{
			ID:              row.ID,
			Email:           row.Email,
			Name:            row.Name,
			Role:            row.Role,
			IsActive:        row.IsActive,
			IsEmailVerified: row.IsEmailVerified,
			LastLoginAt:     row.LastLoginAt,
			CreatedAt:       row.CreatedAt,
			PostCount:       row.PostCount,
		}
	}
	return users, nil
}

func (r *adminRepository) SetUserActive(id string, active bool) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUserCascade removes the user and everything that references them or
// their posts. Either all of it goes or none of it does.
func (r *adminRepository) DeleteUserCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ownNotes := tx.Model(&models.Note{}).Select("id").Where("author_id = ?", id)
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)

		if err := tx.Exec("DELETE FROM note_tags WHERE note_id IN (?)", ownNotes).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ? OR post_id IN (?)", id, ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type postRow struct {
	ID           string
	Slug         string
	Title        string
	AccessLevel  models.AccessLevel
	Status       models.PostStatus
	Featured     bool
	Views        int
	CreatedAt    time.Time
	AuthorID     string
	AuthorEmail  string
	AuthorName   *string
	CommentCount int64
}

func (r *adminRepository) ListPosts() ([]*entity.PostSummary, error) {
	var rows []postRow
	err := r.db.Model(&models.Post{}).
		Select("posts.id, posts.slug, posts.title, posts.access_level, posts.status, posts.featured, posts.views, " +
			"posts.created_at, posts.author_id, users.email AS author_email, users.name AS author_name, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Joins("JOIN users ON users.id = posts.author_id").
		Order("posts.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.PostSummary, len(rows))
	for i, row := range rows {
		posts[i] = &entity.PostSummary{
			ID:          row.ID,
			Slug:        row.Slug,
			Title:       row.Title,
			AccessLevel: row.AccessLevel,
			Status:      row.Status,
			Featured:    row.Featured,
			Views:       row.Views,
			CreatedAt:   row.CreatedAt,
			Author: entity.AuthorSummary{
				ID:    row.AuthorID,
				Email: row.AuthorEmail,
				Name:  row.AuthorName,
			},
			CommentCount: row.CommentCount,
		}
	}
	return posts, nil
}

func (r *adminRepository) SetPostFeatured(id string, featured bool) error {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return r.db.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("featured", featured).Error
}

func (r *adminRepository) DeletePostCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SiteAnalytics runs the six counters concurrently.
func (r *adminRepository) SiteAnalytics(ctx context.Context, activeSince, dayStart time.Time) (*entity.SiteAnalytics, error) {
	stats := &entity.SiteAnalytics{}
	g, ctx := errgroup.WithContext(ctx)

	count := func(dest *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			q := r.db.WithContext(ctx).Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dest).Error
		})
	}

	count(&stats.TotalUsers, &models.User{}, "")
	count(&stats.TotalPosts, &models.Post{}, "")
	count(&stats.TotalComments, &models.Comment{}, "")
	count(&stats.ActiveUsers, &models.User{}, "last_login_at >= ?", activeSince)
	count(&stats.NewUsersToday, &models.User{}, "created_at >= ?", dayStart)
	count(&stats.NewPostsToday, &models.Post{}, "created_at >= ?", dayStart)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
