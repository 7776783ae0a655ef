package handlers

import (
	"net/http"

	"mines_webapp/internal/domain"

	"github.com/gin-gonic/gin"
)

// Highscores отдаёт таблицу рекордов по фильтрам из query-параметров
func (h *Handler) GetHighscores(c *gin.Context) {
	difficulty := c.DefaultQuery("difficulty", "B")
	perCell := queryInt(c, "per_cell", 1)
	limit := queryInt(c, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	order := domain.HighscoreOrder(c.DefaultQuery("order", string(domain.OrderByTime)))
	if order != domain.OrderByTime && order != domain.OrderByBbbvps {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must be time or bbbvps"})
		return
	}

	scores, err := h.Highscores.GetTop(c.Request.Context(), difficulty, perCell, order, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"highscores": scores})
}

// MyHighscores отдаёт лучшие результаты текущего игрока по каждой сложности
func (h *Handler) MyHighscores(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	scores, err := h.Highscores.GetPlayerBests(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"highscores": scores})
}
