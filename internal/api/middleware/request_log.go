package middleware

import (
	"errors"
	"strings"

	"libraryhub/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RequestLogger logs method, path and the token subject for every request.
// The subject is best-effort: requests without a bearer token log as
// "anonymous", undecodable tokens as "invalid_token".
func RequestLogger(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := "anonymous"

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			user = "invalid_token"
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("invalid signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err == nil && token.Valid && claims.Subject != "" {
				user = claims.Subject
			}
		}

		logging.Logger.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"user":   user,
		}).Info("request")

		c.Next()
	}
}
