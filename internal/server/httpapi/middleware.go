package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	accountIDKey = "account_id"
	claimsKey    = "claims"
)

// recovery turns a panic into a 500 without leaking the cause.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(c.Request.Context(), "panic recovered",
					"error", fmt.Sprintf("%v", p),
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey),
				)
				writeDetail(c, http.StatusInternalServerError, internalErrorMessage)
			}
		}()
		c.Next()
	}
}

// requestID propagates X-Request-Id or assigns a fresh one.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

// accessLog logs each request and records its duration.
func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.observeRequest(c.Request.Method, route, status, latency)

		if route == "/health" || route == "/metrics" {
			return
		}

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(c.Request.Context(), "request completed", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(c.Request.Context(), "request completed", args...)
		default:
			s.logger.Info(c.Request.Context(), "request completed", args...)
		}
	}
}

// corsMiddleware sets CORS headers for allowed origins and answers preflight
// requests. Credentials are allowed only for origins listed explicitly; a
// "*" entry admits any origin without them.
func (s *HTTPServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed, explicit := matchOrigin(origin, s.cors); allowed {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if explicit {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+common.RequestIDHeaderName)
			h.Set("Access-Control-Expose-Headers", common.RequestIDHeaderName)
		}
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// matchOrigin reports whether origin is allowed and whether it was named
// explicitly rather than through "*".
func matchOrigin(origin string, allowed []string) (ok, explicit bool) {
	if origin == "" {
		return false, false
	}
	for _, a := range allowed {
		if a == origin {
			return true, true
		}
		if a == "*" {
			ok = true
		}
	}
	return ok, false
}

// requireBearer verifies the Authorization header and stores the token
// subject for the handlers.
func (s *HTTPServer) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || strings.TrimSpace(token) == "" {
			s.metrics.observeAuth(opAuthenticate, common.ErrorUnauthorized)
			s.writeError(c, common.ErrorUnauthorized, http.StatusUnauthorized)
			return
		}

		claims, err := s.tokens.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			s.metrics.observeAuth(opAuthenticate, common.ErrInvalidToken)
			s.writeError(c, common.ErrInvalidToken, http.StatusUnauthorized)
			return
		}

		c.Set(accountIDKey, claims.Subject)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func accountID(c *gin.Context) string {
	return c.GetString(accountIDKey)
}
