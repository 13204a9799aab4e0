package comments

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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
	PollID  int64  `json:"poll_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateRequest struct {
	Content string `json:"content" binding:"required"`
}

// List handles GET /comments/poll/:poll_id.
func (h *Handler) List(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("poll_id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, common.ErrPollNotFound)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	var viewerID int64
	if user, ok := middleware.UserFromContext(c); ok {
		viewerID = user.ID
	}

	result, err := h.service.List(c.Request.Context(), pollID, page, perPage, viewerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create handles POST /comments.
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

	comment, err := h.service.Create(c.Request.Context(), req.PollID, user.ID, req.Content)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, View{
		ID:          comment.ID,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		IsEditor:    user.IsEditor,
		IsOwn:       true,
	})
}

// Update handles PUT /comments/:id.
func (h *Handler) Update(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, common.ErrCommentNotFound)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	comment, err := h.service.Update(c.Request.Context(), commentID, user.ID, user.IsEditor, req.Content)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, View{
		ID:          comment.ID,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
		UserID:      comment.UserID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		IsEditor:    user.IsEditor,
		IsOwn:       comment.UserID == user.ID,
	})
}

// Delete handles DELETE /comments/:id.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, common.ErrCommentNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), commentID, user.ID, user.IsEditor); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Yorum silindi"})
}
