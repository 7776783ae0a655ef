package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mines_webapp/internal/bot"
	"mines_webapp/internal/config"
	"mines_webapp/internal/db"
	httpServer "mines_webapp/internal/http"
	"mines_webapp/internal/http/middleware"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/repository"
	"mines_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	// Инициализация структурированного логгера
	jsonLogs := os.Getenv("LOG_FORMAT") == "json"
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(logLevel, jsonLogs)
	log := logger.Get()

	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis недоступен, кэш и лимитер отключены", "error", err)
		redisClient = nil
	}

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(redisClient)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, dbPool, redisClient, cfg)

	// Бот рекордов запускается до HTTP сервера, чтобы callback анонса
	// был установлен к первому сыгранному рекорду
	var highscoreBot *bot.HighscoreBot
	if cfg.HighscoreBot && cfg.BotToken != "" {
		highscores := service.NewHighscoreService(repository.NewHighscoreRepository(dbPool), redisClient)

		var err error
		highscoreBot, err = bot.NewHighscoreBot(cfg.BotToken, highscores, cfg.HighscoreChatIDs)
		if err != nil {
			log.Error("failed to start highscore bot", "error", err)
		} else {
			go highscoreBot.Start()
			log.Info("highscore bot started", "announce_chats", cfg.HighscoreChatIDs)

			httpServer.SetHighscoreAnnounceCallback(highscoreBot.AnnounceHighscore)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Плавная остановка бота
	if highscoreBot != nil {
		highscoreBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
