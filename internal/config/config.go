package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config - настройки приложения из окружения
type Config struct {
	AppPort     string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	JWTSecret   string

	AllowedOrigin string

	BotToken         string
	HighscoreBot     bool
	HighscoreChatIDs []int64

	// стартовые настройки партии для новых сессий
	DefaultXSize        int
	DefaultYSize        int
	DefaultMines        int
	DefaultPerCell      int
	DefaultLives        int
	DefaultFirstSuccess bool
}

// Load читает .env (если есть) и окружение
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		BotToken:     os.Getenv("BOT_TOKEN"),
		HighscoreBot: os.Getenv("HIGHSCORE_BOT_ENABLED") == "true",

		DefaultXSize:        getEnvInt("GAME_X_SIZE", 8),
		DefaultYSize:        getEnvInt("GAME_Y_SIZE", 8),
		DefaultMines:        getEnvInt("GAME_MINES", 10),
		DefaultPerCell:      getEnvInt("GAME_PER_CELL", 1),
		DefaultLives:        getEnvInt("GAME_LIVES", 1),
		DefaultFirstSuccess: getEnv("GAME_FIRST_SUCCESS", "true") == "true",
	}

	// чаты для публикации рекордов, через запятую
	for _, s := range strings.Split(os.Getenv("HIGHSCORE_CHAT_IDS"), ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			cfg.HighscoreChatIDs = append(cfg.HighscoreChatIDs, id)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
