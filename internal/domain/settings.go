package domain

import "time"

// Settings - сохранённые настройки партии игрока
type Settings struct {
	PlayerID     int64     `db:"player_id" json:"player_id"`
	XSize        int       `db:"x_size" json:"x_size"`
	YSize        int       `db:"y_size" json:"y_size"`
	Mines        int       `db:"mines" json:"mines"`
	PerCell      int       `db:"per_cell" json:"per_cell"`
	Lives        int       `db:"lives" json:"lives"`
	FirstSuccess bool      `db:"first_success" json:"first_success"`
	DragSelect   bool      `db:"drag_select" json:"drag_select"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
