package usecase

import (
	"context"
	"testing"

	"enterprise-blog/pkg/database/dbtest"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/analytics/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	uc    AnalyticsUseCase
	alice *session.Identity
	bob   *session.Identity
}

// newEnv: alice has two posts (10 and 5 views). Bob likes and comments on
// the first, carol comments too, and bob follows alice while alice follows carol.
func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)

	mkUser := func(email string) *models.User {
		u := &models.User{Email: email, Password: "x", Role: models.RoleUser, IsActive: true}
		require.NoError(t, db.Create(u).Error)
		return u
	}
	alice, bob, carol := mkUser("alice@example.com"), mkUser("bob@example.com"), mkUser("carol@example.com")

	first := &models.Post{Title: "First", Slug: "first", Content: "c", AuthorID: alice.ID, Views: 10}
	second := &models.Post{Title: "Second", Slug: "second", Content: "c", AuthorID: alice.ID, Views: 5}
	bobs := &models.Post{Title: "Bob's", Slug: "bobs", Content: "c", AuthorID: bob.ID, Views: 99}
	for _, p := range []*models.Post{first, second, bobs} {
		require.NoError(t, db.Create(p).Error)
	}

	require.NoError(t, db.Create(&models.Like{UserID: bob.ID, PostID: first.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: alice.ID, PostID: bobs.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "hi", PostID: first.ID, AuthorID: bob.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "yo", PostID: first.ID, AuthorID: carol.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "own", PostID: bobs.ID, AuthorID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: bob.ID, FollowingID: alice.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}).Error)

	return &env{
		uc:    NewAnalyticsUseCase(persistent.NewAnalyticsRepository(db), nil, logger.Nop()),
		alice: &session.Identity{ID: alice.ID, Email: alice.Email, Role: alice.Role},
		bob:   &session.Identity{ID: bob.ID, Email: bob.Email, Role: bob.Role},
	}
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)

	stats, err := e.uc.Dashboard(context.Background(), e.alice)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(15), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalLikes)
	assert.Equal(t, int64(2), stats.TotalComments)
	assert.Equal(t, int64(1), stats.Followers)
	assert.Equal(t, int64(1), stats.Following)
}

func TestDashboard_NoPosts(t *testing.T) {
	e := newEnv(t)

	stats, err := e.uc.Dashboard(context.Background(), &session.Identity{ID: "newcomer", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Zero(t, *stats)
}

func TestDashboard_Anonymous(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Dashboard(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPostStats(t *testing.T) {
	e := newEnv(t)

	stats, err := e.uc.PostStats(e.alice, "first")
	require.NoError(t, err)
	assert.Equal(t, "First", stats.Title)
	assert.Equal(t, 10, stats.Views)
	assert.Equal(t, int64(1), stats.Likes)
	assert.Equal(t, int64(2), stats.Comments)

	_, err = e.uc.PostStats(e.bob, "first")
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = e.uc.PostStats(e.alice, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = e.uc.PostStats(nil, "first")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
