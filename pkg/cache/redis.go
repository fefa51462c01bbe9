package cache

import (
	"context"
	"fmt"
	"time"

	"enterprise-blog/pkg/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr(), err)
	}

	return client, nil
}

// NotificationChannel is the pub/sub channel carrying a user's live notifications.
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}

// PostViewKey marks that viewer has already been counted for a post.
func PostViewKey(postID, viewer string) string {
	return fmt.Sprintf("post_view:%s:%s", postID, viewer)
}

// DashboardStatsKey caches a user's dashboard counters.
func DashboardStatsKey(userID string) string {
	return "analytics:dashboard:" + userID
}
