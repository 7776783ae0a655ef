package http

import (
	"time"

	"mines_webapp/internal/config"
	"mines_webapp/internal/domain"
	"mines_webapp/internal/game"
	"mines_webapp/internal/http/handlers"
	"mines_webapp/internal/http/middleware"
	"mines_webapp/internal/repository"
	"mines_webapp/internal/service"
	"mines_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var highscoreService *service.HighscoreService

// SetHighscoreAnnounceCallback задаёт обработчик новых рекордов.
// Вызывается после RegisterRoutes, когда бот уже запущен
func SetHighscoreAnnounceCallback(fn func(*domain.Highscore)) {
	if highscoreService != nil {
		highscoreService.SetRecordCallback(fn)
	}
}

// RegisterRoutes собирает сервисы и вешает все маршруты приложения
func RegisterRoutes(r *gin.Engine, dbPool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config) *service.SessionService {
	highscoreRepo := repository.NewHighscoreRepository(dbPool)
	settingsRepo := repository.NewSettingsRepository(dbPool)
	playerRepo := repository.NewPlayerRepository(dbPool)

	defaults := game.GameOpts{
		XSize:        cfg.DefaultXSize,
		YSize:        cfg.DefaultYSize,
		Mines:        cfg.DefaultMines,
		PerCell:      cfg.DefaultPerCell,
		Lives:        cfg.DefaultLives,
		FirstSuccess: cfg.DefaultFirstSuccess,
	}
	highscores := service.NewHighscoreService(highscoreRepo, redisClient)
	highscoreService = highscores
	sessions := service.NewSessionService(defaults, playerRepo, highscores)

	h := handlers.NewHandler(dbPool, cfg, sessions, highscores, settingsRepo, playerRepo)
	hub := ws.NewHub()
	// ws-слушатель живёт ровно столько, сколько его сессия
	sessions.SetCloseCallback(hub.Remove)

	r.GET("/health", h.Health)
	r.POST("/api/auth", middleware.RateLimit(10, time.Minute), h.Auth)

	r.GET("/ws", h.WS(hub))

	api := r.Group("/api", middleware.JWTAuth())
	{
		play := api.Group("/game", middleware.RateLimit(300, time.Minute))
		{
			play.POST("/new", h.NewGame)
			play.POST("/restart", h.RestartGame)
			play.POST("/select", h.SelectCell)
			play.POST("/flag", h.FlagCell)
			play.POST("/unflag", h.RemoveCellFlags)
			play.POST("/chord", h.ChordOnCell)
			play.POST("/resize", h.ResizeBoard)
			play.POST("/first_success", h.SetFirstSuccess)
			play.POST("/per_cell", h.SetPerCell)
			play.POST("/lives", h.SetLives)
			play.POST("/mode", h.SwitchMode)
			play.GET("/state", h.GameState)
			play.GET("/minefield", h.ExportMinefield)
			play.POST("/minefield", h.ImportMinefield)
		}

		api.GET("/profile", h.Profile)

		api.GET("/settings", h.GetSettings)
		api.POST("/settings", h.SaveSettings)

		api.GET("/highscores", middleware.RateLimit(60, time.Minute), h.GetHighscores)
		api.GET("/highscores/my", middleware.RateLimit(60, time.Minute), h.MyHighscores)
	}

	return sessions
}
