// handlers.go serves the auth and profile routes, issuing tokens on
// register/login/refresh.
package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/server/middleware"
)

type Handler struct {
	service *Service
	tokens  *auth.Manager
	clock   common.Clock
}

func NewHandler(service *Service, tokens *auth.Manager, clock common.Clock) *Handler {
	return &Handler{service: service, tokens: tokens, clock: clock}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (h *Handler) tokenResponse(c *gin.Context, status int, u *User) {
	token, err := h.tokens.Issue(u.ID, h.clock.Now())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(h.tokens.Lifetime().Seconds()),
		"user":         u,
	})
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.tokenResponse(c, http.StatusCreated, u)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.tokenResponse(c, http.StatusOK, u)
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	u, err := h.service.Get(c.Request.Context(), user.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Refresh handles POST /auth/refresh: a valid token buys a fresh one.
func (h *Handler) Refresh(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	u, err := h.service.Get(c.Request.Context(), user.ID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.tokenResponse(c, http.StatusOK, u)
}

// Profile handles GET /users/:username.
func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.service.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/me/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, common.ErrUnauthenticated)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, common.ErrMissingFields)
		return
	}

	err := h.service.UpdateProfile(c.Request.Context(), user.ID, req.DisplayName, req.AvatarURL)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profil güncellendi"})
}
