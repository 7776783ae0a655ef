package repository

import (
	"context"

	"mines_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HighscoreRepository struct {
	db *pgxpool.Pool
}

func NewHighscoreRepository(db *pgxpool.Pool) *HighscoreRepository {
	return &HighscoreRepository{db: db}
}

// сохраняет рекорд завершённой победой партии
func (r *HighscoreRepository) Create(ctx context.Context, hs *domain.Highscore) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO highscores (player_id, player_name, difficulty, per_cell, drag_select,
				ts, elapsed, bbbv, bbbvps, flagging)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		hs.PlayerID, hs.PlayerName, hs.Difficulty, hs.PerCell, hs.DragSelect,
		hs.Timestamp, hs.ElapsedS, hs.Bbbv, hs.Bbbvps, hs.FlaggingP,
	).Scan(&hs.ID)
}

// возвращает топ рекордов по сложности; порядок - время или скорость
func (r *HighscoreRepository) GetTop(ctx context.Context, difficulty string, perCell int, order domain.HighscoreOrder, limit int) ([]*domain.Highscore, error) {
	orderBy := "elapsed ASC"
	if order == domain.OrderByBbbvps {
		orderBy = "bbbvps DESC"
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, player_name, difficulty, per_cell, drag_select,
				ts, elapsed, bbbv, bbbvps, flagging
		 FROM highscores
		 WHERE difficulty = $1 AND per_cell = $2
		 ORDER BY `+orderBy+`
		 LIMIT $3`,
		difficulty, perCell, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanHighscores(rows)
}

// лучшие результаты одного игрока по каждой сложности
func (r *HighscoreRepository) GetPlayerBests(ctx context.Context, playerID int64) ([]*domain.Highscore, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (difficulty, per_cell)
				id, player_id, player_name, difficulty, per_cell, drag_select,
				ts, elapsed, bbbv, bbbvps, flagging
		 FROM highscores
		 WHERE player_id = $1
		 ORDER BY difficulty, per_cell, elapsed ASC`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanHighscores(rows)
}

// рекорды игрока на одной сложности, быстрые сверху
func (r *HighscoreRepository) GetPlayerScores(ctx context.Context, playerID int64, difficulty string, limit int) ([]*domain.Highscore, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, player_name, difficulty, per_cell, drag_select,
				ts, elapsed, bbbv, bbbvps, flagging
		 FROM highscores
		 WHERE player_id = $1 AND difficulty = $2
		 ORDER BY elapsed ASC
		 LIMIT $3`,
		playerID, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanHighscores(rows)
}

func (r *HighscoreRepository) scanHighscores(rows pgx.Rows) ([]*domain.Highscore, error) {
	var result []*domain.Highscore
	for rows.Next() {
		var hs domain.Highscore
		err := rows.Scan(
			&hs.ID, &hs.PlayerID, &hs.PlayerName, &hs.Difficulty, &hs.PerCell, &hs.DragSelect,
			&hs.Timestamp, &hs.ElapsedS, &hs.Bbbv, &hs.Bbbvps, &hs.FlaggingP,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, &hs)
	}
	return result, rows.Err()
}
