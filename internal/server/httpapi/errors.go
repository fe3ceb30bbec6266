package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal server error"

// statusFor maps the error taxonomy to a status code and the message shown
// to the client. Anything unknown becomes a bare 500.
func statusFor(err error, notFoundStatus int) (int, string) {
	switch {
	case errors.Is(err, common.ErrorInternal):
		return http.StatusInternalServerError, internalErrorMessage
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusBadRequest, common.ErrDuplicateEmail.Error()
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, common.ErrInvalidToken.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, common.ErrorNotFound):
		return notFoundStatus, "account not found"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

func (s *HTTPServer) writeError(c *gin.Context, err error, notFoundStatus int) {
	status, msg := statusFor(err, notFoundStatus)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", common.BearerScheme)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err, "request_id", c.GetString(requestIDKey))
	}
	_ = c.Error(err)
	writeDetail(c, status, msg)
}

func writeDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Detail: msg})
}
