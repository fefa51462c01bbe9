package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/cache"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/analytics/internal/entity"
	"enterprise-blog/services/analytics/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// statsTTL bounds how stale cached dashboard counters may be.
const statsTTL = 30 * time.Second

var (
	ErrUnauthorized = apperror.New(apperror.Unauthenticated, "Unauthorized")
	ErrPostNotFound = apperror.New(apperror.NotFound, "Post not found")
	ErrNotAuthor    = apperror.New(apperror.Forbidden, "You can only view stats for your own posts")
)

type AnalyticsUseCase interface {
	Dashboard(ctx context.Context, viewer *session.Identity) (*entity.DashboardStats, error)
	PostStats(viewer *session.Identity, slug string) (*entity.PostStats, error)
}

type analyticsUseCase struct {
	analyticsRepo persistent.AnalyticsRepository
	redisClient   *redis.Client
	logger        *logger.Logger
}

func NewAnalyticsUseCase(analyticsRepo persistent.AnalyticsRepository, redisClient *redis.Client, logger *logger.Logger) AnalyticsUseCase {
	return &analyticsUseCase{
		analyticsRepo: analyticsRepo,
		redisClient:   redisClient,
		logger:        logger,
	}
}

func (uc *analyticsUseCase) Dashboard(ctx context.Context, viewer *session.Identity) (*entity.DashboardStats, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}

	if stats := uc.cached(ctx, viewer.ID); stats != nil {
		return stats, nil
	}

	stats, err := uc.analyticsRepo.DashboardStats(ctx, viewer.ID)
	if err != nil {
		uc.logger.Error("Failed to get dashboard stats for %s: %v", viewer.ID, err)
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch analytics", err)
	}

	uc.store(ctx, viewer.ID, stats)
	return stats, nil
}

func (uc *analyticsUseCase) PostStats(viewer *session.Identity, slug string) (*entity.PostStats, error) {
	if viewer == nil {
		return nil, ErrUnauthorized
	}

	post, err := uc.analyticsRepo.GetPostBySlug(slug)
	if errors.Is(err, persistent.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch analytics", err)
	}
	if post.AuthorID != viewer.ID {
		return nil, ErrNotAuthor
	}

	likes, err := uc.analyticsRepo.GetPostLikeCount(post.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch analytics", err)
	}
	comments, err := uc.analyticsRepo.GetPostCommentCount(post.ID)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "Failed to fetch analytics", err)
	}

	return &entity.PostStats{
		PostID:    post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		Views:     post.Views,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: post.CreatedAt,
	}, nil
}

func (uc *analyticsUseCase) cached(ctx context.Context, userID string) *entity.DashboardStats {
	if uc.redisClient == nil {
		return nil
	}

	raw, err := uc.redisClient.Get(ctx, cache.DashboardStatsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			uc.logger.Warn("Failed to read cached stats for %s: %v", userID, err)
		}
		return nil
	}

	var stats entity.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (uc *analyticsUseCase) store(ctx context.Context, userID string, stats *entity.DashboardStats) {
	if uc.redisClient == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := uc.redisClient.Set(ctx, cache.DashboardStatsKey(userID), raw, statsTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache stats for %s: %v", userID, err)
	}
}
