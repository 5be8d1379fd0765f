package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/usecase/auth"
)

type AuthMiddleware struct {
	authUseCase *auth.UseCase
}

func NewAuthMiddleware(authUseCase *auth.UseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// RequireAuth validates the bearer token and stores the authenticated user
// ID in the request context under "user_id".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authorization token required",
			})
			return
		}

		userID, err := m.authUseCase.VerifyToken(c.Request.Context(), token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, domain.ErrSessionExpired) {
				message = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": message,
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("token", token)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
