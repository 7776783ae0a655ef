package handlers

import (
	"net/http"
	"strconv"

	"mines_webapp/internal/config"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/repository"
	"mines_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler держит зависимости всех HTTP-обработчиков
type Handler struct {
	DB         *pgxpool.Pool
	Cfg        *config.Config
	Sessions   *service.SessionService
	Highscores *service.HighscoreService
	Settings   *repository.SettingsRepository
	Players    *repository.PlayerRepository
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config, sessions *service.SessionService,
	highscores *service.HighscoreService, settings *repository.SettingsRepository,
	players *repository.PlayerRepository) *Handler {
	return &Handler{
		DB:         db,
		Cfg:        cfg,
		Sessions:   sessions,
		Highscores: highscores,
		Settings:   settings,
		Players:    players,
	}
}

// id игрока, положенный в контекст auth-мидлварой
func getPlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("player_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func getPlayerName(c *gin.Context) string {
	v, ok := c.Get("player_name")
	if !ok {
		return ""
	}
	name, _ := v.(string)
	return name
}

// Auth выдаёт JWT по валидной Telegram init_data
func (h *Handler) Auth(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data"`
	}
	if err := c.BindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data required"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.Cfg.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	playerID, playerName, ok := service.ExtractTelegramUser(values)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
		return
	}

	token, err := service.GenerateJWT(playerID, playerName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	if err := h.Players.Touch(c.Request.Context(), playerID, playerName); err != nil {
		logger.Warn("не удалось обновить профиль игрока", "player_id", playerID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "player_id": playerID, "name": playerName})
}

// Profile отдаёт профиль игрока со счётом побед и поражений
func (h *Handler) Profile(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	player, err := h.Players.Get(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": player})
}

// Health - проверка живости для балансировщика
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.Sessions.ActiveCount()})
}

// разбор int-параметра query с дефолтом
func queryInt(c *gin.Context, key string, fallback int) int {
	if s := c.Query(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
