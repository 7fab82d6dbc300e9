package middleware

import (
	"fmt"
	"net/http"

	"libraryhub/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the standard error envelope instead of a bare
// 500, without leaking internals beyond the panic message.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.Logger.WithField("path", c.Request.URL.Path).Errorf("panic recovered: %v", recovered)
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("%v", recovered))
	})
}
