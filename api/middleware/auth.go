package middleware

import (
	"net/http"
	"strings"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет JWT из заголовка Authorization и кладет
// идентификатор пользователя в контекст запроса
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization failed"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := services.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization failed"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
