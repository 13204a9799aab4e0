// Package server assembles the gin engine, registers feature routes
// and runs the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/config"
	"gercekmi.com/backend/internal/features/comments"
	"gercekmi.com/backend/internal/features/likes"
	"gercekmi.com/backend/internal/features/polls"
	"gercekmi.com/backend/internal/features/users"
	"gercekmi.com/backend/internal/features/votes"
	"gercekmi.com/backend/internal/server/middleware"
)

// Handlers groups the feature handlers the router mounts.
type Handlers struct {
	Users    *users.Handler
	Polls    *polls.Handler
	Votes    *votes.Handler
	Likes    *likes.Handler
	Comments *comments.Handler
}

type Server struct {
	http    *http.Server
	limiter *middleware.RateLimiter
}

func New(cfg *config.Config, tokens *auth.Manager, resolver auth.Resolver, h Handlers) *Server {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestLogger())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authn := middleware.RequireAuth(tokens, resolver)
	maybe := middleware.OptionalAuth(tokens, resolver)

	api := engine.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(limiter.Middleware())
		{
			authGroup.POST("/register", h.Users.Register)
			authGroup.POST("/login", h.Users.Login)
			authGroup.GET("/me", authn, h.Users.Me)
			authGroup.POST("/refresh", authn, h.Users.Refresh)
		}

		pollGroup := api.Group("/polls")
		{
			pollGroup.GET("", maybe, h.Polls.List)
			pollGroup.GET("/trending", maybe, h.Polls.Trending)
			pollGroup.GET("/ending-soon", maybe, h.Polls.EndingSoon)
			pollGroup.GET("/categories", h.Polls.Categories)
			pollGroup.GET("/my-limit", authn, h.Polls.MyLimit)
			pollGroup.GET("/:poll_id", maybe, h.Polls.Get)
			pollGroup.POST("", authn, h.Polls.Create)
			pollGroup.DELETE("/:poll_id", authn, h.Polls.Delete)
		}

		voteGroup := api.Group("/votes", authn)
		{
			voteGroup.POST("", h.Votes.Cast)
			voteGroup.DELETE("/:poll_id", h.Votes.Retract)
			voteGroup.GET("/:poll_id/my-vote", h.Votes.MyVote)
		}

		userGroup := api.Group("/users")
		{
			userGroup.POST("/like/:poll_id", authn, h.Likes.Like)
			userGroup.DELETE("/like/:poll_id", authn, h.Likes.Unlike)
			userGroup.GET("/:username", h.Users.Profile)
			userGroup.GET("/:username/polls", maybe, h.Polls.ListByUser)
			userGroup.PUT("/me/profile", authn, h.Users.UpdateProfile)
		}

		commentGroup := api.Group("/comments")
		{
			commentGroup.GET("/poll/:poll_id", maybe, h.Comments.List)
			commentGroup.POST("", authn, h.Comments.Create)
			commentGroup.PUT("/:id", authn, h.Comments.Update)
			commentGroup.DELETE("/:id", authn, h.Comments.Delete)
		}
	}

	return &Server{
		http: &http.Server{
			Addr:              cfg.HTTPAddr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		limiter: limiter,
	}
}

// Run serves until the context is canceled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.http.Addr).Info("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.limiter.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
