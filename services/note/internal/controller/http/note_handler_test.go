package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/pkg/models"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/note/internal/entity"
	"enterprise-blog/services/note/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNoteUseCase struct {
	mock.Mock
}

func (m *MockNoteUseCase) ListNotes(viewer *session.Identity) ([]*entity.Note, error) {
	args := m.Called(viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Note), args.Error(1)
}

func (m *MockNoteUseCase) GetNote(viewer *session.Identity, id string) (*entity.Note, error) {
	args := m.Called(viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteUseCase) CreateNote(viewer *session.Identity, input usecase.CreateNoteInput) (*entity.Note, error) {
	args := m.Called(viewer, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteUseCase) UpdateNote(viewer *session.Identity, id string, input usecase.UpdateNoteInput) (*entity.Note, error) {
	args := m.Called(viewer, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteUseCase) DeleteNote(viewer *session.Identity, id string) error {
	return m.Called(viewer, id).Error(0)
}

var _ usecase.NoteUseCase = (*MockNoteUseCase)(nil)

type tokenResolver map[string]*session.Identity

func (r tokenResolver) Resolve(credential string) *session.Identity {
	return r[credential]
}

var alice = &session.Identity{ID: "user-123", Email: "alice@example.com", Role: models.RoleUser}

func setupTestRouter(handler *NoteHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	notes := router.Group("/notes", middleware.AuthMiddleware(tokenResolver{"alice-token": alice}))
	notes.GET("", handler.ListNotes)
	notes.POST("", handler.CreateNote)
	notes.GET("/:id", handler.GetNote)
	notes.PUT("/:id", handler.UpdateNote)
	notes.DELETE("/:id", handler.DeleteNote)
	return router
}

func perform(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
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

func TestNotes_RequireAuth(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	w := perform(router, "GET", "/notes", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUseCase.AssertNotCalled(t, "ListNotes", mock.Anything)
}

func TestListNotes(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	mockUseCase.On("ListNotes", alice).Return([]*entity.Note{
		{ID: "n1", Title: "pinned", IsPinned: true, Color: "#ffffff", Tags: []entity.Tag{{ID: "t1", Name: "go"}}},
	}, nil)

	w := perform(router, "GET", "/notes", "alice-token", "")

	assert.Equal(t, http.StatusOK, w.Code)
	note := decode(t, w)["notes"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, note["is_pinned"])
	assert.Equal(t, "go", note["tags"].([]interface{})[0].(map[string]interface{})["name"])
}

func TestCreateNote(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	input := usecase.CreateNoteInput{Title: "t", Content: "c", Tags: []string{"go"}}
	mockUseCase.On("CreateNote", alice, input).Return(&entity.Note{ID: "n1", Title: "t", Color: "#ffffff"}, nil)

	w := perform(router, "POST", "/notes", "alice-token", `{"title":"t","content":"c","tags":["go"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "#ffffff", decode(t, w)["note"].(map[string]interface{})["color"])
}

func TestCreateNote_Invalid(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	mockUseCase.On("CreateNote", alice, usecase.CreateNoteInput{Title: "t"}).Return(nil, usecase.ErrTitleContentRequired)

	w := perform(router, "POST", "/notes", "alice-token", `{"title":"t"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and content are required", decode(t, w)["error"])

	w = perform(router, "POST", "/notes", "alice-token", `{"title":"t","content":"c","color":"a-colour-name-that-is-far-too-long"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["error"])
}

func TestUpdateNote_OnlyPresentFields(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	pinned := true
	mockUseCase.On("UpdateNote", alice, "n1", usecase.UpdateNoteInput{IsPinned: &pinned}).
		Return(&entity.Note{ID: "n1", IsPinned: true}, nil)
	mockUseCase.On("UpdateNote", alice, "n1", usecase.UpdateNoteInput{Tags: []string{}}).
		Return(&entity.Note{ID: "n1", Tags: []entity.Tag{}}, nil)

	w := perform(router, "PUT", "/notes/n1", "alice-token", `{"is_pinned":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, "PUT", "/notes/n1", "alice-token", `{"tags":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestNoteNotFound(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	mockUseCase.On("GetNote", alice, "foreign").Return(nil, usecase.ErrNoteNotFound)
	mockUseCase.On("DeleteNote", alice, "foreign").Return(usecase.ErrNoteNotFound)

	w := perform(router, "GET", "/notes/foreign", "alice-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Note not found", decode(t, w)["error"])

	w = perform(router, "DELETE", "/notes/foreign", "alice-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteNote(t *testing.T) {
	mockUseCase := new(MockNoteUseCase)
	router := setupTestRouter(NewNoteHandler(mockUseCase, logger.Nop()))

	mockUseCase.On("DeleteNote", alice, "n1").Return(nil)

	w := perform(router, "DELETE", "/notes/n1", "alice-token", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Note deleted successfully", decode(t, w)["message"])
}
