package usecase

import (
	"context"
	"testing"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/database/dbtest"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/notification/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	uc    NotificationUseCase
	alice *session.Identity
	bob   *session.Identity
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)

	bobName := "Bob"
	alice := &models.User{Email: "alice@example.com", Password: "x", Role: models.RoleUser, IsActive: true}
	bob := &models.User{Email: "bob@example.com", Name: &bobName, Password: "x", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	return &env{
		uc:    NewNotificationUseCase(persistent.NewNotificationRepository(db), nil, logger.Nop()),
		alice: &session.Identity{ID: alice.ID, Email: alice.Email, Role: alice.Role},
		bob:   &session.Identity{ID: bob.ID, Email: bob.Email, Name: bob.Name, Role: bob.Role},
	}
}

func TestHandleTask_Comment(t *testing.T) {
	e := newEnv(t)

	err := e.uc.HandleTask(queue.NotificationTask{
		Type:      queue.RoutingComment,
		UserID:    e.alice.ID,
		ActorID:   e.bob.ID,
		ActorName: "Bob",
		PostID:    "post-1",
		PostSlug:  "hello-world",
		PostTitle: "Hello World",
	})
	require.NoError(t, err)

	notifications, err := e.uc.List(e.alice)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	n := notifications[0]
	assert.Equal(t, "comment", n.Type)
	assert.Equal(t, "New Comment", n.Title)
	assert.Equal(t, `Bob commented on your post "Hello World"`, n.Message)
	assert.Equal(t, "hello-world", n.Data["post_slug"])
	assert.Equal(t, e.bob.ID, n.Data["actor_id"])
	assert.False(t, n.IsRead)
}

func TestHandleTask_ResolvesActorName(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.alice.ID, ActorID: e.bob.ID}))
	require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.bob.ID, ActorID: e.alice.ID}))
	require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingLike, UserID: e.bob.ID, ActorID: "gone-user", PostTitle: "Diary"}))

	forAlice, err := e.uc.List(e.alice)
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.Equal(t, "New Follower", forAlice[0].Title)
	assert.Equal(t, "Bob started following you", forAlice[0].Message)
	assert.NotContains(t, forAlice[0].Data, "post_id")

	forBob, err := e.uc.List(e.bob)
	require.NoError(t, err)
	require.Len(t, forBob, 2)
	messages := []string{forBob[0].Message, forBob[1].Message}
	assert.Contains(t, messages, "alice@example.com started following you")
	assert.Contains(t, messages, `Someone liked your post "Diary"`)
}

func TestHandleTask_Invalid(t *testing.T) {
	e := newEnv(t)

	assert.ErrorIs(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingLike, UserID: e.alice.ID}), ErrInvalidTask)
	assert.ErrorIs(t, e.uc.HandleTask(queue.NotificationTask{Type: "new_post", UserID: e.alice.ID, ActorID: e.bob.ID}), ErrInvalidTask)

	notifications, err := e.uc.List(e.alice)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestList_CapsAtInboxSize(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < InboxSize+5; i++ {
		require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.alice.ID, ActorID: e.bob.ID, ActorName: "Bob"}))
	}

	notifications, err := e.uc.List(e.alice)
	require.NoError(t, err)
	assert.Len(t, notifications, InboxSize)
}

func TestSetRead_OnlyOwnNotifications(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.alice.ID, ActorID: e.bob.ID, ActorName: "Bob"}))

	notifications, err := e.uc.List(e.alice)
	require.NoError(t, err)
	id := notifications[0].ID

	err = e.uc.SetRead(e.bob, id, true)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	require.NoError(t, e.uc.SetRead(e.alice, id, true))
	// Setting the same state again still succeeds.
	require.NoError(t, e.uc.SetRead(e.alice, id, true))

	notifications, err = e.uc.List(e.alice)
	require.NoError(t, err)
	assert.True(t, notifications[0].IsRead)

	require.NoError(t, e.uc.SetRead(e.alice, id, false))
	notifications, err = e.uc.List(e.alice)
	require.NoError(t, err)
	assert.False(t, notifications[0].IsRead)

	assert.ErrorIs(t, e.uc.SetRead(e.alice, "missing", true), ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.alice.ID, ActorID: e.bob.ID, ActorName: "Bob"}))
	}
	require.NoError(t, e.uc.HandleTask(queue.NotificationTask{Type: queue.RoutingFollow, UserID: e.bob.ID, ActorID: e.alice.ID, ActorName: "Alice"}))

	updated, err := e.uc.MarkAllRead(e.alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = e.uc.MarkAllRead(e.alice)
	require.NoError(t, err)
	assert.Zero(t, updated)

	forBob, err := e.uc.List(e.bob)
	require.NoError(t, err)
	assert.False(t, forBob[0].IsRead)
}

func TestAnonymousCallersRejected(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.List(nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, e.uc.SetRead(nil, "x", true), ErrUnauthorized)
	_, err = e.uc.MarkAllRead(nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubscribe_WithoutRedis(t *testing.T) {
	e := newEnv(t)

	_, err := e.uc.Subscribe(context.Background(), e.alice.ID)
	assert.ErrorIs(t, err, ErrStreamUnavailable)
}
