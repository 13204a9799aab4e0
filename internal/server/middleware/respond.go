// respond.go maps the sentinel error taxonomy onto HTTP status codes
// in one place, so no handler invents its own mapping.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/common"
)

// statusOf picks the response code for a business-rule rejection.
// Anything unrecognized is an internal error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrPollNotFound),
		errors.Is(err, common.ErrVoteNotFound),
		errors.Is(err, common.ErrLikeNotFound),
		errors.Is(err, common.ErrCommentNotFound),
		errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, common.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrVoteConflict):
		return http.StatusConflict
	case errors.Is(err, common.ErrPollExpired),
		errors.Is(err, common.ErrCategoryNotFound),
		errors.Is(err, common.ErrInvalidChoice),
		errors.Is(err, common.ErrContentLength),
		errors.Is(err, common.ErrMissingFields),
		errors.Is(err, common.ErrAlreadyLiked),
		errors.Is(err, common.ErrEmailTaken),
		errors.Is(err, common.ErrUsernameTaken):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// AbortWithError ends the request with the error's status code and a
// JSON body. Internal errors are logged and not echoed to the client.
func AbortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.AbortWithStatusJSON(status, gin.H{"detail": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}
