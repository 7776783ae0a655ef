package domain

import "time"

// Highscore - строка таблицы рекордов: одна завершённая победой партия
type Highscore struct {
	ID         int64     `db:"id" json:"id"`
	PlayerID   int64     `db:"player_id" json:"player_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Difficulty string    `db:"difficulty" json:"difficulty"`
	PerCell    int       `db:"per_cell" json:"per_cell"`
	DragSelect bool      `db:"drag_select" json:"drag_select"`
	Timestamp  time.Time `db:"ts" json:"timestamp"`
	ElapsedS   float64   `db:"elapsed" json:"elapsed"`
	Bbbv       int       `db:"bbbv" json:"bbbv"`
	Bbbvps     float64   `db:"bbbvps" json:"bbbvps"`
	FlaggingP  float64   `db:"flagging" json:"flagging"`
}

// сортировки таблицы рекордов
type HighscoreOrder string

const (
	OrderByTime   HighscoreOrder = "time"   // быстрее - лучше
	OrderByBbbvps HighscoreOrder = "bbbvps" // выше скорость - лучше
)
