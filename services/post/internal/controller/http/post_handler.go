package http

import (
	"net/http"
	"strconv"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/services/post/internal/entity"
	"enterprise-blog/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Excerpt     *string `json:"excerpt"`
	AccessLevel string  `json:"access_level" binding:"omitempty,oneof=PUBLIC INTERNAL PRIVATE"`
	Status      string  `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
	Featured    bool    `json:"featured"`
}

type UpdatePostRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Excerpt     *string `json:"excerpt"`
	AccessLevel *string `json:"access_level" binding:"omitempty,oneof=PUBLIC INTERNAL PRIVATE"`
	Status      *string `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
	Featured    *bool   `json:"featured"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type PostListResponse struct {
	Posts      []*entity.Post    `json:"posts"`
	Pagination entity.Pagination `json:"pagination"`
}

type SearchResponse struct {
	Posts      []*entity.Post `json:"posts"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultPageSize)))
	return usecase.NormalizePage(page, limit)
}

// ListPosts godoc
// @Summary      List posts
// @Description  Posts visible to the caller, newest first. Anonymous callers see PUBLIC posts; signed-in callers also see INTERNAL posts and their own PRIVATE posts.
// @Tags         posts
// @Produce      json
// @Param        page   query int false "Page (1-indexed)" default(1)
// @Param        limit  query int false "Page size" default(10)
// @Success      200  {object}  PostListResponse
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, limit := pageParams(c)

	posts, pagination, err := h.postUseCase.ListPosts(middleware.Viewer(c), page, limit)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Pagination: pagination})
}

// SearchPosts godoc
// @Summary      Search posts
// @Description  Case-insensitive match on title or content, restricted to posts visible to the caller
// @Tags         posts
// @Produce      json
// @Param        q      query string false "Search term"
// @Param        page   query int false "Page (1-indexed)" default(1)
// @Param        limit  query int false "Page size" default(10)
// @Success      200  {object}  SearchResponse
// @Failure      500  {object}  map[string]string
// @Router       /posts/search [get]
func (h *PostHandler) SearchPosts(c *gin.Context) {
	page, limit := pageParams(c)

	posts, pagination, err := h.postUseCase.SearchPosts(middleware.Viewer(c), c.Query("q"), page, limit)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Posts:      posts,
		Total:      pagination.Total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: pagination.Pages,
	})
}

// CreatePost godoc
// @Summary      Create a post
// @Description  The slug is derived from the title and must be unique. Defaults: PUBLIC, PUBLISHED, not featured.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post data"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.postUseCase.CreatePost(middleware.Viewer(c), usecase.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		AccessLevel: entity.AccessLevel(req.AccessLevel),
		Status:      entity.PostStatus(req.Status),
		Featured:    req.Featured,
	})
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPost godoc
// @Summary      Get post by slug
// @Description  Returns the post with its comments (newest first), like count and whether the caller liked it
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  entity.PostDetail
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	detail, err := h.postUseCase.GetPost(middleware.Viewer(c), c.Param("slug"))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Owner or admin only. The slug is re-derived when the title changes.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body UpdatePostRequest true "Post data"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := usecase.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Featured: req.Featured,
	}
	if req.AccessLevel != nil {
		level := entity.AccessLevel(*req.AccessLevel)
		input.AccessLevel = &level
	}
	if req.Status != nil {
		status := entity.PostStatus(*req.Status)
		input.Status = &status
	}

	post, err := h.postUseCase.UpdatePost(middleware.Viewer(c), c.Param("slug"), input)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Owner or admin only. Comments and likes are removed with the post.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.DeletePost(middleware.Viewer(c), c.Param("slug")); err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Param        request body CommentRequest true "Comment"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.postUseCase.AddComment(middleware.Viewer(c), c.Param("slug"), req.Content)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// LikePost godoc
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	liked, count, err := h.postUseCase.ToggleLike(middleware.Viewer(c), c.Param("slug"))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked, "like_count": count})
}

// RecordView godoc
// @Summary      Record a post view
// @Description  Counted once per viewer per day
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug}/view [post]
func (h *PostHandler) RecordView(c *gin.Context) {
	counted, err := h.postUseCase.RecordView(middleware.Viewer(c), c.Param("slug"), c.ClientIP())
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counted": counted})
}

// ListOwnPosts godoc
// @Summary      List the caller's posts
// @Description  Every post the caller wrote, whatever its access level or status
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        page   query int false "Page (1-indexed)" default(1)
// @Param        limit  query int false "Page size" default(10)
// @Success      200  {object}  PostListResponse
// @Failure      401  {object}  map[string]string
// @Router       /dashboard/posts [get]
func (h *PostHandler) ListOwnPosts(c *gin.Context) {
	page, limit := pageParams(c)

	posts, pagination, err := h.postUseCase.ListOwnPosts(middleware.Viewer(c), page, limit)
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Pagination: pagination})
}
