package http

import (
	"net/http"

	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/logger"
	"enterprise-blog/pkg/middleware"
	"enterprise-blog/services/analytics/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsUseCase usecase.AnalyticsUseCase
	logger           *logger.Logger
}

func NewAnalyticsHandler(analyticsUseCase usecase.AnalyticsUseCase, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUseCase: analyticsUseCase,
		logger:           logger,
	}
}

// GetDashboard godoc
// @Summary      Get dashboard statistics
// @Description  Post, view, like and comment totals across the caller's posts, plus follower counts. Views are counted by POST /posts/{slug}/view.
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.DashboardStats
// @Failure      401  {object}  map[string]string
// @Router       /dashboard/analytics [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsUseCase.Dashboard(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetPostStats godoc
// @Summary      Get post statistics
// @Description  Views, likes and comments of one of the caller's posts
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Post slug"
// @Success      200  {object}  entity.PostStats
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /dashboard/analytics/posts/{slug} [get]
func (h *AnalyticsHandler) GetPostStats(c *gin.Context) {
	stats, err := h.analyticsUseCase.PostStats(middleware.Viewer(c), c.Param("slug"))
	if err != nil {
		apperror.Respond(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
