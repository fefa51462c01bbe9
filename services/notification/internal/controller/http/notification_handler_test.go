package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/queue"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/notification/internal/entity"
	"enterprise-blog/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationUseCase struct {
	mock.Mock
}

func (m *MockNotificationUseCase) List(viewer *session.Identity) ([]*entity.Notification, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockNotificationUseCase) SetRead(viewer *session.Identity, id string, isRead bool) error {
	return m.Called(viewer, id, isRead).Error(0)
}

func (m *MockNotificationUseCase) MarkAllRead(viewer *session.Identity) (int64, error) {
	args := m.Called(viewer)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationUseCase) HandleTask(task queue.NotificationTask) error {
	return m.Called(task).Error(0)
}

func (m *MockNotificationUseCase) Subscribe(ctx context.Context, userID string) (*redis.PubSub, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.PubSub), args.Error(1)
}

var _ usecase.NotificationUseCase = (*MockNotificationUseCase)(nil)

type tokenResolver map[string]*session.Identity

func (r tokenResolver) Resolve(credential string) *session.Identity {
	return r[credential]
}

type fakeQueue struct {
	length int
	err    error
}

func (q fakeQueue) GetQueueLength() (int, error) {
	return q.length, q.err
}

var (
	alice    = &session.Identity{ID: "user-123", Email: "alice@example.com", Role: models.RoleUser}
	root     = &session.Identity{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
	resolver = tokenResolver{"alice-token": alice, "admin-token": root}
)

func setupTestRouter(handler *NotificationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/dashboard/notifications/ws", handler.HandleWebSocket)

	protected := router.Group("", middleware.AuthMiddleware(resolver))
	protected.GET("/dashboard/notifications", handler.GetNotifications)
	protected.PUT("/dashboard/notifications/read-all", handler.MarkAllRead)
	protected.PUT("/dashboard/notifications/:id", handler.UpdateNotification)

	admin := router.Group("/admin", middleware.AuthMiddleware(resolver), middleware.RequireAdmin())
	admin.GET("/notifications/queue", handler.QueueStatus)
	return router
}

func perform(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestGetNotifications_Unauthorized(t *testing.T) {
	router := setupTestRouter(NewNotificationHandler(new(MockNotificationUseCase), resolver, nil, logger.Nop()))

	w := perform(router, "GET", "/dashboard/notifications", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])
}

func TestGetNotifications_Success(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	mockUseCase.On("List", alice).Return([]*entity.Notification{
		{ID: "n1", UserID: alice.ID, Type: "like", Title: "New Like", Message: "Bob liked your post", CreatedAt: time.Now()},
	}, nil)

	w := perform(router, "GET", "/dashboard/notifications", "alice-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	notifications := decode(t, w)["notifications"].([]interface{})
	require.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, "New Like", first["title"])
	assert.Equal(t, false, first["is_read"])
	mockUseCase.AssertExpectations(t)
}

func TestUpdateNotification(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	mockUseCase.On("SetRead", alice, "n1", true).Return(nil)
	mockUseCase.On("SetRead", alice, "other", true).Return(usecase.ErrNotificationNotFound)

	w := perform(router, "PUT", "/dashboard/notifications/n1", "alice-token", map[string]bool{"is_read": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Notification updated successfully", decode(t, w)["message"])

	w = perform(router, "PUT", "/dashboard/notifications/other", "alice-token", map[string]bool{"is_read": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Notification not found", decode(t, w)["error"])
}

func TestUpdateNotification_MissingField(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	w := perform(router, "PUT", "/dashboard/notifications/n1", "alice-token", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["error"])
	mockUseCase.AssertNotCalled(t, "SetRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAllRead(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	mockUseCase.On("MarkAllRead", alice).Return(int64(4), nil)

	w := perform(router, "PUT", "/dashboard/notifications/read-all", "alice-token", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["updated"])
}

func TestHandleWebSocket_RequiresToken(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	w := perform(router, "GET", "/dashboard/notifications/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token required", decode(t, w)["error"])

	w = perform(router, "GET", "/dashboard/notifications/ws?token=forged", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUseCase.AssertNotCalled(t, "Subscribe", mock.Anything)
}

func TestHandleWebSocket_StreamUnavailable(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	router := setupTestRouter(NewNotificationHandler(mockUseCase, resolver, nil, logger.Nop()))

	mockUseCase.On("Subscribe", alice.ID).Return(nil, usecase.ErrStreamUnavailable)

	w := perform(router, "GET", "/dashboard/notifications/ws?token=alice-token", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestQueueStatus(t *testing.T) {
	router := setupTestRouter(NewNotificationHandler(new(MockNotificationUseCase), resolver, fakeQueue{length: 7}, logger.Nop()))

	w := perform(router, "GET", "/admin/notifications/queue", "alice-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(router, "GET", "/admin/notifications/queue", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decode(t, w)["queue_length"])

	router = setupTestRouter(NewNotificationHandler(new(MockNotificationUseCase), resolver, fakeQueue{err: errors.New("channel closed")}, logger.Nop()))
	w = perform(router, "GET", "/admin/notifications/queue", "admin-token", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	router = setupTestRouter(NewNotificationHandler(new(MockNotificationUseCase), resolver, nil, logger.Nop()))
	w = perform(router, "GET", "/admin/notifications/queue", "admin-token", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
