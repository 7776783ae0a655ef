package middleware

import (
	"net/http"
	"strings"

	"mines_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// JWTAuth проверяет Bearer-токен и кладёт игрока в контекст запроса
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		playerID, playerName, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("player_id", playerID)
		c.Set("player_name", playerName)
		c.Next()
	}
}
