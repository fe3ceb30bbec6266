package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/dmitrijs2005/sportstore/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Smart Sport Store API!",
		"version": APIVersion,
		"status":  "running",
		"docs":    "/docs",
	})
}

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		s.metrics.observeAuth(opRegister, err)
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	account, err := s.accounts.Register(c.Request.Context(), services.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth.Time,
		Gender:      models.Gender(req.Gender),
		Password:    req.Password,
	})
	s.metrics.observeAuth(opRegister, err)
	if err != nil {
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		s.metrics.observeAuth(opLogin, err)
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	res, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	s.metrics.observeAuth(opLogin, err)
	if err != nil {
		s.writeError(c, err, http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		User:        res.Account,
	})
}

func (s *HTTPServer) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		s.metrics.observeAuth(opUpdateProfile, err)
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	account, err := s.accounts.UpdateProfile(c.Request.Context(), accountID(c), req.patch())
	s.metrics.observeAuth(opUpdateProfile, err)
	if err != nil {
		s.writeError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (s *HTTPServer) me(c *gin.Context) {
	account, err := s.accounts.GetAccount(c.Request.Context(), accountID(c))
	if err != nil {
		s.writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, account)
}

// bindJSON decodes the body into req and validates it. Every failure
// matches common.ErrValidation.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, ErrInvalidDate) {
			return common.Validationf("%s", ErrInvalidDate.Error())
		}
		if errors.Is(err, io.EOF) {
			return common.Validationf("request body is required")
		}
		return common.Validationf("malformed JSON body")
	}
	return validateRequest(req)
}
