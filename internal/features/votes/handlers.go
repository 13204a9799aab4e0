// handlers.go binds the tally engine to the HTTP surface.
package votes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/server/middleware"
)

// Handler serves the /votes routes.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type castRequest struct {
	PollID int64  `json:"poll_id" binding:"required"`
	Choice Choice `json:"vote_type" binding:"required"`
}

type castResponse struct {
	PollID           int64  `json:"poll_id"`
	Choice           Choice `json:"vote_type"`
	Status           Status `json:"status"`
	GercekVotes      int    `json:"gercek_votes"`
	EfsaneVotes      int    `json:"efsane_votes"`
	TotalVotes       int    `json:"total_votes"`
	GercekPercentage int    `json:"gercek_percentage"`
	EfsanePercentage int    `json:"efsane_percentage"`
	Message          string `json:"message"`
}

func castMessage(status Status) string {
	switch status {
	case StatusCreated:
		return "Oyunuz kaydedildi"
	case StatusChanged:
		return "Oyunuz değiştirildi"
	case StatusUnchanged:
		return "Zaten bu şekilde oy vermişsiniz"
	case StatusRetracted:
		return "Oyunuz geri çekildi"
	}
	return ""
}

func toResponse(r *Result) castResponse {
	return castResponse{
		PollID:           r.PollID,
		Choice:           r.Choice,
		Status:           r.Status,
		GercekVotes:      r.Tally.Gercek,
		EfsaneVotes:      r.Tally.Efsane,
		TotalVotes:       r.Tally.Total(),
		GercekPercentage: r.Tally.GercekPercentage(),
		EfsanePercentage: r.Tally.EfsanePercentage(),
		Message:          castMessage(r.Status),
	}
}

// Cast handles POST /votes.
func (h *Handler) Cast(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	var req castRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	result, err := h.service.Cast(c.Request.Context(), req.PollID, user.ID, req.Choice)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(result))
}

// Retract handles DELETE /votes/:poll_id.
func (h *Handler) Retract(c *gin.Context) {
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

	result, err := h.service.Retract(c.Request.Context(), pollID, user.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(result))
}

// MyVote handles GET /votes/:poll_id/my-vote.
func (h *Handler) MyVote(c *gin.Context) {
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

	vote, err := h.service.MyVote(c.Request.Context(), pollID, user.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if vote == nil {
		c.JSON(http.StatusOK, gin.H{"vote_type": nil, "voted_at": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote_type": vote.Choice, "voted_at": vote.CreatedAt})
}
