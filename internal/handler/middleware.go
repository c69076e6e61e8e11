package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/imartins/task-api/internal/dto"
	"github.com/imartins/task-api/internal/service"
	"github.com/imartins/task-api/internal/token"
)

// userIDKey is the gin context key holding the authenticated user id.
const userIDKey = "user_id"

// Scheme is case-sensitive, separator is one or more whitespace characters.
var bearerPattern = regexp.MustCompile(`^Bearer\s+(.+)$`)

// AuthMiddleware authenticates the request and stores the user id in the
// context. A present X-API-Key header takes the static-key path; otherwise a
// Bearer access token is required. Access-token checks are self-contained and
// never consult the refresh-token whitelist.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			userID, err := authService.AuthenticateAPIKey(c.Request.Context(), apiKey)
			if err != nil {
				if errors.Is(err, service.ErrInvalidAPIKey) {
					abortWithMessage(c, http.StatusUnauthorized, "invalid API key")
					return
				}
				abortWithMessage(c, http.StatusInternalServerError, err.Error())
				return
			}

			c.Set(userIDKey, userID)
			c.Next()
			return
		}

		matches := bearerPattern.FindStringSubmatch(c.GetHeader("Authorization"))
		if matches == nil {
			abortWithMessage(c, http.StatusBadRequest, "incomplete authorization header")
			return
		}

		userID, err := authService.AuthenticateAccessToken(matches[1])
		if err != nil {
			// Expired and tampered tokens must stay distinguishable so
			// clients know whether to refresh or re-login.
			switch {
			case errors.Is(err, token.ErrTokenExpired):
				abortWithMessage(c, http.StatusUnauthorized, "token has expired")
			case errors.Is(err, token.ErrInvalidSignature):
				abortWithMessage(c, http.StatusUnauthorized, "invalid signature")
			case errors.Is(err, token.ErrMalformedToken):
				abortWithMessage(c, http.StatusBadRequest, "malformed token")
			default:
				abortWithMessage(c, http.StatusInternalServerError, err.Error())
			}
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Message: message})
	c.Abort()
}
