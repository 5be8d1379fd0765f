package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.UseCase
}

func NewAuthHandler(authUseCase *auth.UseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
		return
	}

	result, err := h.authUseCase.Register(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrPhoneTaken) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "registration failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), &req, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid phone or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if err := h.authUseCase.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "logout failed"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
