package repository

import (
	"context"

	"mines_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Touch заводит игрока при первой авторизации и обновляет last_seen
func (r *PlayerRepository) Touch(ctx context.Context, tgID int64, username string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO players (tg_id, username, first_seen, last_seen)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (tg_id) DO UPDATE SET
				username = EXCLUDED.username,
				last_seen = now()`,
		tgID, username,
	)
	return err
}

// RecordResult инкрементит счётчик побед или поражений игрока
func (r *PlayerRepository) RecordResult(ctx context.Context, tgID int64, won bool) error {
	column := "games_lost"
	if won {
		column = "games_won"
	}
	_, err := r.db.Exec(ctx,
		`UPDATE players SET `+column+` = `+column+` + 1 WHERE tg_id = $1`,
		tgID,
	)
	return err
}

// Get возвращает игрока (pgx.ErrNoRows если не авторизовывался)
func (r *PlayerRepository) Get(ctx context.Context, tgID int64) (*domain.Player, error) {
	var p domain.Player
	err := r.db.QueryRow(ctx,
		`SELECT tg_id, username, first_seen, last_seen, games_won, games_lost
		 FROM players
		 WHERE tg_id = $1`,
		tgID,
	).Scan(&p.TgID, &p.Username, &p.FirstSeen, &p.LastSeen, &p.GamesWon, &p.GamesLost)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
