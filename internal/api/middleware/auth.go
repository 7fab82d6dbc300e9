package middleware

import (
	"net/http"
	"strings"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// AuthMiddleware checks for a valid bearer token in the Authorization header
// and resolves it to a user for downstream handlers.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		user, err := authService.ValidateToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// RequireActive rejects deactivated accounts.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusBadRequest, "Inactive user")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects authenticated users without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		if !user.IsAdmin {
			abortWithError(c, http.StatusForbidden, "Only administrators can perform this action")
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Path:    c.Request.URL.Path,
	})
}
