package persistent

import (
	"context"
	"errors"

	"enterprise-blog/services/analytics/internal/entity"
	"enterprise-blog/services/analytics/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type AnalyticsRepository interface {
	DashboardStats(ctx context.Context, userID string) (*entity.DashboardStats, error)
	GetPostBySlug(slug string) (*entity.Post, error)
	GetPostLikeCount(postID string) (int64, error)
	GetPostCommentCount(postID string) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) DashboardStats(ctx context.Context, userID string) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{}
	g, ctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return r.db.WithContext(ctx) }
	ownPosts := func() *gorm.DB { return db().Model(&model.PostModel{}).Select("id").Where("author_id = ?", userID) }

	g.Go(func() error {
		return db().Model(&model.PostModel{}).Where("author_id = ?", userID).Count(&stats.TotalPosts).Error
	})
	g.Go(func() error {
		return db().Model(&model.PostModel{}).Where("author_id = ?", userID).
			Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews).Error
	})
	g.Go(func() error {
		return db().Model(&model.LikeModel{}).Where("post_id IN (?)", ownPosts()).Count(&stats.TotalLikes).Error
	})
	g.Go(func() error {
		return db().Model(&model.CommentModel{}).Where("post_id IN (?)", ownPosts()).Count(&stats.TotalComments).Error
	})
	g.Go(func() error {
		return db().Model(&model.FollowModel{}).Where("following_id = ?", userID).Count(&stats.Followers).Error
	})
	g.Go(func() error {
		return db().Model(&model.FollowModel{}).Where("follower_id = ?", userID).Count(&stats.Following).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *analyticsRepository) GetPostBySlug(slug string) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.db.Where("slug = ?", slug).First(&postModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *analyticsRepository) GetPostLikeCount(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) GetPostCommentCount(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CommentModel{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
