package handler

import (
	"net/http"

	"libraryhub/internal/api/dto"

	"github.com/gin-gonic/gin"
)

// respondError writes the standard error envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Path:    c.Request.URL.Path,
	})
}
