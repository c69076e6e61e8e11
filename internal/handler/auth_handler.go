package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/repository"
	"github.com/imartins/task-api/internal/service"
	"github.com/imartins/task-api/internal/token"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "missing registration fields"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Message: "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	// The API key is only ever returned here
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "Registered",
		ID:      user.ID,
		APIKey:  user.APIKey,
	})
}

// Login verifies credentials and returns a fresh token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "missing login credentials"})
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid authentication"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token and returns the new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "missing token"})
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case isCodecError(err):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid token"})
		case errors.Is(err, service.ErrTokenNotWhitelisted):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid token (not in whitelist)"})
		case errors.Is(err, service.ErrUnknownSubject):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid authentication"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout revokes a refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "missing token"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.Token); err != nil {
		if isCodecError(err) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid token"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// isCodecError reports whether err is any token decode failure. The refresh
// and logout endpoints fail closed on all of them alike.
func isCodecError(err error) bool {
	return errors.Is(err, token.ErrMalformedToken) ||
		errors.Is(err, token.ErrInvalidSignature) ||
		errors.Is(err, token.ErrTokenExpired)
}
