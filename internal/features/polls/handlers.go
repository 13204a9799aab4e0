package polls

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/server/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Question   string `json:"question" binding:"required"`
	CategoryID int64  `json:"category_id" binding:"required"`
}

// Create handles POST /polls.
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	view, err := h.service.Create(c.Request.Context(), user, req.CategoryID, req.Question)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get handles GET /polls/:poll_id.
func (h *Handler) Get(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("poll_id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, common.ErrPollNotFound)
		return
	}

	view, err := h.service.Get(c.Request.Context(), pollID, viewer(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// List handles GET /polls.
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Page:            intQuery(c, "page", 1),
		PerPage:         intQuery(c, "per_page", 20),
		CategoryID:      int64(intQuery(c, "category_id", 0)),
		IncludeArchived: c.Query("include_archived") == "true",
	}

	page, err := h.service.List(c.Request.Context(), f, viewer(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListByUser handles GET /users/:username/polls.
func (h *Handler) ListByUser(c *gin.Context) {
	page, err := h.service.ListByUser(
		c.Request.Context(),
		c.Param("username"),
		c.Query("status"),
		intQuery(c, "page", 1),
		intQuery(c, "per_page", 20),
		viewer(c),
	)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Trending handles GET /polls/trending.
func (h *Handler) Trending(c *gin.Context) {
	views, err := h.service.Trending(c.Request.Context(), intQuery(c, "limit", 10), viewer(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": views})
}

// EndingSoon handles GET /polls/ending-soon.
func (h *Handler) EndingSoon(c *gin.Context) {
	views, err := h.service.EndingSoon(c.Request.Context(), intQuery(c, "limit", 10), viewer(c))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": views})
}

// Categories handles GET /polls/categories.
func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// MyLimit handles GET /polls/my-limit.
func (h *Handler) MyLimit(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	status, err := h.service.RemainingQuota(c.Request.Context(), user)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Delete handles DELETE /polls/:poll_id.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	pollID, err := strconv.ParseInt(c.Param("poll_id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, common.ErrPollNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), pollID, user); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Anket silindi"})
}

func viewer(c *gin.Context) *auth.Identity {
	if user, ok := middleware.UserFromContext(c); ok {
		return user
	}
	return nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
