package likes

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

// Like handles POST /users/like/:poll_id.
func (h *Handler) Like(c *gin.Context) {
	h.toggle(c, true)
}

// Unlike handles DELETE /users/like/:poll_id.
func (h *Handler) Unlike(c *gin.Context) {
	h.toggle(c, false)
}

func (h *Handler) toggle(c *gin.Context, like bool) {
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

	var result *Result
	if like {
		result, err = h.service.Like(c.Request.Context(), pollID, user.ID)
	} else {
		result, err = h.service.Unlike(c.Request.Context(), pollID, user.ID)
	}
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	message := "Anket beğenildi"
	if !like {
		message = "Beğeni kaldırıldı"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"poll_id":     result.PollID,
		"liked":       result.Liked,
		"likes_count": result.LikesCount,
	})
}
