package http

import (
	"net/http"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/services/admin/internal/entity"
	"enterprise-blog/services/admin/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

type UserListResponse struct {
	Users []*entity.UserSummary `json:"users"`
}

type PostListResponse struct {
	Posts []*entity.PostSummary `json:"posts"`
}

// ListUsers godoc
// @Summary      List users
// @Description  Every account with its post count
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUseCase.ListUsers(middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, UserListResponse{Users: users})
}

// UpdateUser godoc
// @Summary      Activate, deactivate or delete a user
// @Description  Deleting removes the user's posts, comments, likes, follows, notes and notifications
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string         true "User ID"
// @Param        request  body ActionRequest  true "activate | deactivate | delete"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	message, err := h.adminUseCase.UpdateUser(middleware.Viewer(c), c.Param("id"), usecase.UserAction(req.Action))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ListPosts godoc
// @Summary      List posts
// @Description  Every post regardless of access level, with author and comment count
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PostListResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/posts [get]
func (h *AdminHandler) ListPosts(c *gin.Context) {
	posts, err := h.adminUseCase.ListPosts(middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: posts})
}

// UpdatePost godoc
// @Summary      Feature, unfeature or delete a post
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string         true "Post ID"
// @Param        request  body ActionRequest  true "feature | unfeature | delete"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{id} [put]
func (h *AdminHandler) UpdatePost(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	message, err := h.adminUseCase.UpdatePost(middleware.Viewer(c), c.Param("id"), usecase.PostAction(req.Action))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Analytics godoc
// @Summary      Site-wide counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.SiteAnalytics
// @Failure      403  {object}  map[string]string
// @Router       /admin/analytics [get]
func (h *AdminHandler) Analytics(c *gin.Context) {
	stats, err := h.adminUseCase.Analytics(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
