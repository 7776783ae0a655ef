package domain

import "time"

// Player - игрок из Telegram, заводится при первой авторизации
type Player struct {
	TgID      int64     `db:"tg_id" json:"tg_id"`
	Username  string    `db:"username" json:"username"`
	FirstSeen time.Time `db:"first_seen" json:"first_seen"`
	LastSeen  time.Time `db:"last_seen" json:"last_seen"`
	GamesWon  int       `db:"games_won" json:"games_won"`
	GamesLost int       `db:"games_lost" json:"games_lost"`
}
