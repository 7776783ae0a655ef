package repository

import (
	"context"

	"mines_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// возвращает сохранённые настройки игрока (pgx.ErrNoRows если их нет)
func (r *SettingsRepository) Get(ctx context.Context, playerID int64) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.QueryRow(ctx,
		`SELECT player_id, x_size, y_size, mines, per_cell, lives,
				first_success, drag_select, updated_at
		 FROM settings
		 WHERE player_id = $1`,
		playerID,
	).Scan(&s.PlayerID, &s.XSize, &s.YSize, &s.Mines, &s.PerCell, &s.Lives,
		&s.FirstSuccess, &s.DragSelect, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// сохраняет настройки игрока, перезаписывая предыдущие
func (r *SettingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO settings (player_id, x_size, y_size, mines, per_cell, lives,
				first_success, drag_select, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (player_id) DO UPDATE SET
				x_size = EXCLUDED.x_size,
				y_size = EXCLUDED.y_size,
				mines = EXCLUDED.mines,
				per_cell = EXCLUDED.per_cell,
				lives = EXCLUDED.lives,
				first_success = EXCLUDED.first_success,
				drag_select = EXCLUDED.drag_select,
				updated_at = now()`,
		s.PlayerID, s.XSize, s.YSize, s.Mines, s.PerCell, s.Lives,
		s.FirstSuccess, s.DragSelect,
	)
	return err
}
