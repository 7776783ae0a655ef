package handlers

import (
	"net/http"

	"mines_webapp/internal/logger"
	"mines_webapp/internal/service"
	"mines_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS апгрейдит соединение и запускает игровой цикл клиента.
// Токен передаётся query-параметром - заголовки в ws из браузера не доступны
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if h.Cfg.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == h.Cfg.AllowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		playerID, playerName, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		opts := h.defaultOpts()
		if saved, dbErr := h.Settings.Get(c.Request.Context(), playerID); dbErr == nil {
			opts.XSize = saved.XSize
			opts.YSize = saved.YSize
			opts.Mines = saved.Mines
			opts.PerCell = saved.PerCell
			opts.Lives = saved.Lives
			opts.FirstSuccess = saved.FirstSuccess
			opts.DragSelect = saved.DragSelect
		}

		session, err := h.Sessions.GetOrCreate(playerID, playerName, &opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("не удалось апгрейднуть ws-соединение", "error", err)
			return
		}

		client := ws.NewClient(session, conn, hub)
		go client.Run()
	}
}
