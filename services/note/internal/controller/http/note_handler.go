package http

import (
	"net/http"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/services/note/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteUseCase usecase.NoteUseCase
	logger      *logger.Logger
}

func NewNoteHandler(noteUseCase usecase.NoteUseCase, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteUseCase: noteUseCase,
		logger:      logger,
	}
}

type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Color   string   `json:"color" binding:"max=20"`
	Tags    []string `json:"tags" binding:"max=20,dive,max=50"`
}

type UpdateNoteRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Color      *string   `json:"color" binding:"omitempty,max=20"`
	IsPinned   *bool     `json:"is_pinned"`
	IsArchived *bool     `json:"is_archived"`
	Tags       *[]string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// ListNotes godoc
// @Summary      List notes
// @Description  The caller's notes, pinned first, then most recently updated
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.noteUseCase.ListNotes(middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// CreateNote godoc
// @Summary      Create a note
// @Description  Tags are matched by name and created when missing. Color defaults to #ffffff.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body CreateNoteRequest  true "Note data"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	note, err := h.noteUseCase.CreateNote(middleware.Viewer(c), usecase.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
		Tags:    req.Tags,
	})
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// GetNote godoc
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.noteUseCase.GetNote(middleware.Viewer(c), c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// UpdateNote godoc
// @Summary      Update a note
// @Description  Only the fields present are changed. Sending tags replaces the whole set.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string             true "Note ID"
// @Param        request  body UpdateNoteRequest  true "Changed fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := usecase.UpdateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Color:      req.Color,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
	}
	if req.Tags != nil {
		input.Tags = append([]string{}, *req.Tags...)
	}

	note, err := h.noteUseCase.UpdateNote(middleware.Viewer(c), c.Param("id"), input)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": note})
}

// DeleteNote godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteUseCase.DeleteNote(middleware.Viewer(c), c.Param("id")); err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
